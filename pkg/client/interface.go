package client

import (
	"context"

	"github.com/faceport/faceport/pkg/types"
)

// VisionClient is implemented by vision-model transports (ollama,
// llama.cpp). ScanFaces asks the model for every face in the image;
// SimpleQuery is a free-text probe used to check that the model can
// actually see the image.
type VisionClient interface {
	SimpleQuery(ctx context.Context, model, prompt, imgB64 string) (string, error)
	ScanFaces(ctx context.Context, model, prompt, imgB64 string) (*types.FaceScan, error)
}
