package zpl

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"correioszpl/internal/symbol"
)

func TestSelectLogo(t *testing.T) {
	cases := []struct {
		service string
		want    Mark
	}{
		{"Carta Registrada", MarkRegisteredLetter},
		{"carta comercial", MarkRegisteredLetter},
		{"SEDEX 10", MarkSedex10},
		{"sedex 12", MarkSedex10},
		{"Sedex Hoje", MarkSedex10},
		{"SEDEX", MarkSedex},
		{"sedex contrato", MarkSedex},
		{"PAC", MarkPAC},
		{"", MarkPAC},
		{"Mini Envios", MarkPAC},
	}
	for _, tc := range cases {
		t.Run(tc.service, func(t *testing.T) {
			assert.Equal(t, tc.want, SelectLogo(tc.service))
		})
	}
}

func TestDefaultLogosAreDistinctAndStable(t *testing.T) {
	first, err := DefaultLogos(symbol.Z64{})
	require.NoError(t, err)
	second, err := DefaultLogos(symbol.Z64{})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	seen := map[string]Mark{}
	for _, m := range []Mark{MarkPAC, MarkSedex, MarkSedex10, MarkRegisteredLetter} {
		directive := first.For(m)
		assert.True(t, strings.HasPrefix(directive, "^GFA,"), m.String())
		if prev, dup := seen[directive]; dup {
			t.Fatalf("logo %s duplicates %s", m, prev)
		}
		seen[directive] = m
	}
}

func TestLoadLogosOverridesConfiguredArtwork(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pac.png")
	img := image.NewGray(image.Rect(0, 0, 16, 16))
	for i := 0; i < 16; i++ {
		img.SetGray(i, i, color.Gray{})
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	defaults, err := DefaultLogos(symbol.Z64{})
	require.NoError(t, err)
	logos, err := LoadLogos(LogoFiles{PAC: path}, symbol.Z64{})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(logos.PAC, "^GFA,32,32,2,"), logos.PAC)
	assert.NotEqual(t, defaults.PAC, logos.PAC)
	assert.Equal(t, defaults.Sedex, logos.Sedex)

	_, err = LoadLogos(LogoFiles{Sedex: filepath.Join(t.TempDir(), "missing.png")}, symbol.Z64{})
	assert.Error(t, err)
}
