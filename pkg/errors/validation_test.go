package errors

import (
	"math"
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "scenes/stretch.toml", false},
		{"valid filename only", "grid.svg", false},
		{"valid with dots", "v1.2.3/scene.json", false},
		{"valid absolute", "/tmp/out.svg", false},
		{"inner dots resolve", "foo/../bar.toml", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"path traversal", "../../../etc/passwd", true},
		{"parent only", "..", true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateCoords(t *testing.T) {
	tests := []struct {
		name    string
		coords  []float64
		dim     int
		wantErr bool
	}{
		{"2d", []float64{1, 2}, 2, false},
		{"3d", []float64{1, 2, 3}, 3, false},
		{"too few", []float64{1}, 2, true},
		{"too many", []float64{1, 2, 3}, 2, true},
		{"nil", nil, 3, true},
		{"nan", []float64{math.NaN(), 0}, 2, true},
		{"inf", []float64{0, 0, math.Inf(-1)}, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoords(tt.coords, tt.dim)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCoords(%v, %d) error = %v, wantErr %v", tt.coords, tt.dim, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidArgument) {
				t.Errorf("ValidateCoords returned wrong error code: %v", err)
			}
		})
	}
}

func TestValidateExponent(t *testing.T) {
	for _, v := range []float64{0, 1, 2.5} {
		if err := ValidateExponent("exponent", v); err != nil {
			t.Errorf("ValidateExponent(%v) = %v, want nil", v, err)
		}
	}
	for _, v := range []float64{-1, math.NaN(), math.Inf(1)} {
		if err := ValidateExponent("exponent", v); !Is(err, ErrCodeInvalidArgument) {
			t.Errorf("ValidateExponent(%v) = %v, want INVALID_ARGUMENT", v, err)
		}
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeIndexOutOfRange,
		ErrCodeInvalidArgument,
		ErrCodeInvalidScene,
		ErrCodeInvalidMode,
		ErrCodeInvalidFormat,
		ErrCodeInvalidPath,
		ErrCodeFileNotFound,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
