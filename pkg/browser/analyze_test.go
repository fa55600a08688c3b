package browser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzePage(t *testing.T) {
	tests := []struct {
		name        string
		html        string
		wantTitle   string
		wantVideo   int
		wantCanvas  int
		wantHasDesc bool
	}{
		{
			name: "studio page with camera elements",
			html: `<html><head>
				<title>ChromeCam Studio</title>
				<meta name="description" content="Camera effects studio">
			</head><body>
				<video autoplay></video>
				<canvas id="output"></canvas>
			</body></html>`,
			wantTitle:   "ChromeCam Studio",
			wantVideo:   1,
			wantCanvas:  1,
			wantHasDesc: true,
		},
		{
			name:      "page without media elements",
			html:      `<html><head><title>Other App</title></head><body><p>hello</p></body></html>`,
			wantTitle: "Other App",
		},
		{
			name:       "multiple canvases",
			html:       `<html><body><canvas></canvas><canvas></canvas><canvas></canvas></body></html>`,
			wantCanvas: 3,
		},
		{
			name:      "unclosed tags are tolerated",
			html:      `<html><head><title>Broken</title><body><video>`,
			wantTitle: "Broken",
			wantVideo: 1,
		},
		{
			name:      "unterminated title swallows the rest of the document",
			html:      `<html><head><title>Broken</head><body><video>`,
			wantTitle: "Broken</head><body><video>",
		},
		{
			name: "empty document",
			html: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis, err := AnalyzePage(tt.html)
			require.NoError(t, err)

			assert.Equal(t, tt.wantTitle, analysis.Title)
			assert.Equal(t, tt.wantVideo, analysis.VideoCount)
			assert.Equal(t, tt.wantCanvas, analysis.CanvasCount)
			assert.Equal(t, tt.wantVideo > 0, analysis.HasVideo())
			assert.Equal(t, tt.wantCanvas > 0, analysis.HasCanvas())

			if tt.wantHasDesc {
				assert.NotEmpty(t, analysis.Description)
			} else {
				assert.Empty(t, analysis.Description)
			}
		})
	}
}

func TestAnalyzePageBodyLength(t *testing.T) {
	analysis, err := AnalyzePage(`<html><body><p>hello world</p></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, len("hello world"), analysis.BodyLength)
}

func TestPageAnalysisString(t *testing.T) {
	analysis := &PageAnalysis{Title: "ChromeCam Studio", VideoCount: 1, CanvasCount: 2, BodyLength: 10}
	s := analysis.String()
	assert.True(t, strings.Contains(s, "ChromeCam Studio"))
	assert.True(t, strings.Contains(s, "video=1"))
	assert.True(t, strings.Contains(s, "canvas=2"))
}
