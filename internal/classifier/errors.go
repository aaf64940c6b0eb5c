package classifier

import (
	"fmt"
	"strings"
)

// gpuSignatures are substrings that show up in onnxruntime session errors
// when the artifact was exported with GPU execution providers baked in and
// the host runtime only has the CPU provider available.
var gpuSignatures = []string{
	"CUDA",
	"GPU device",
	"CUDAExecutionProvider",
}

const gpuRemediation = "this model was exported for a GPU execution provider and cannot " +
	"be loaded on a CPU-only host; re-export the model with the CPU execution " +
	"provider in your training environment and publish the artifact again"

// translateLoadError rewraps the known GPU-built/CPU-host incompatibility
// into an actionable message. Every other error passes through unchanged.
func translateLoadError(err error) error {
	if err == nil {
		return nil
	}
	message := err.Error()
	for _, signature := range gpuSignatures {
		if strings.Contains(message, signature) {
			return fmt.Errorf("%s: %w", gpuRemediation, err)
		}
	}
	return err
}
