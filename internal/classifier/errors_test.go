package classifier

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestTranslateLoadError(t *testing.T) {
	tests := []struct {
		name              string
		err               error
		expectRemediation bool
	}{
		{
			name:              "CUDA provider failure is translated",
			err:               errors.New("Error creating session: CUDA execution provider is not available"),
			expectRemediation: true,
		},
		{
			name:              "GPU device failure is translated",
			err:               errors.New("no GPU device found for requested provider"),
			expectRemediation: true,
		},
		{
			name:              "unrelated failure passes through",
			err:               errors.New("invalid protobuf in model file"),
			expectRemediation: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := translateLoadError(tt.err)
			if result == nil {
				t.Fatal("Expected non-nil error")
			}

			hasRemediation := strings.Contains(result.Error(), "CPU-only host")
			if hasRemediation != tt.expectRemediation {
				t.Errorf("Expected remediation=%v, got error %q", tt.expectRemediation, result)
			}

			// the original failure must stay reachable for callers
			if !errors.Is(result, tt.err) && result.Error() != tt.err.Error() {
				t.Errorf("Expected original error to be preserved, got %q", result)
			}
		})
	}
}

func TestTranslateLoadError_Nil(t *testing.T) {
	if err := translateLoadError(nil); err != nil {
		t.Errorf("Expected nil for nil input, got %v", err)
	}
}

func TestTranslateLoadError_Wrapping(t *testing.T) {
	original := fmt.Errorf("session init: %w", errors.New("CUDAExecutionProvider missing"))
	translated := translateLoadError(original)

	if !errors.Is(translated, original) {
		t.Error("Expected translated error to wrap the original")
	}
}
