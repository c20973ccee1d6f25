package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/standin/internal/core/domain"
)

func TestParseArtifactName(t *testing.T) {
	t.Parallel()

	const fp = domain.Fingerprint(0xdeadbeefcafe0042)

	tests := []struct {
		name     string
		input    string
		wantFP   domain.Fingerprint
		wantKind domain.ShaderKind
		wantOK   bool
	}{
		{
			name:     "plain binary",
			input:    domain.BinaryName(fp, domain.VertexShader),
			wantFP:   fp,
			wantKind: domain.VertexShader,
			wantOK:   true,
		},
		{
			name:     "listing source",
			input:    domain.SourceName(fp, domain.PixelShader),
			wantFP:   fp,
			wantKind: domain.PixelShader,
			wantOK:   true,
		},
		{
			name:     "replace variant",
			input:    domain.ReplaceSourceName(fp, domain.ComputeShader),
			wantFP:   fp,
			wantKind: domain.ComputeShader,
			wantOK:   true,
		},
		{
			name:     "bad marker",
			input:    domain.BadMarkerName(fp, domain.GeometryShader),
			wantFP:   fp,
			wantKind: domain.GeometryShader,
			wantOK:   true,
		},
		{
			name:     "numbered collision export",
			input:    domain.NumberedBinaryName(fp, domain.HullShader, 3),
			wantFP:   fp,
			wantKind: domain.HullShader,
			wantOK:   true,
		},
		{
			name:  "wrong extension",
			input: "deadbeefcafe0042-vs.wgsl",
		},
		{
			name:  "short fingerprint",
			input: "deadbeef-vs.bin",
		},
		{
			name:  "non-hex fingerprint",
			input: "deadbeefcafe004z-vs.bin",
		},
		{
			name:  "unknown kind",
			input: "deadbeefcafe0042-xx.bin",
		},
		{
			name:  "no separator",
			input: "deadbeefcafe0042.bin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gotFP, gotKind, ok := domain.ParseArtifactName(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantFP, gotFP)
				assert.Equal(t, tt.wantKind, gotKind)
			}
		})
	}
}
