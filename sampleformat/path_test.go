package sampleformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_FromPathExtension(t *testing.T) {
	f, path := FromPath("capture.CU8")
	assert.Equal(t, CU8, f)
	assert.Equal(t, "capture.CU8", path)
}

func Test_FromPathInlineAnnotation(t *testing.T) {
	f, path := FromPath("/tmp/capture.iq:CU8")
	assert.Equal(t, CU8, f)
	assert.Equal(t, "/tmp/capture.iq", path)
}

func Test_FromPathInlineWinsOverExtension(t *testing.T) {
	f, path := FromPath("capture.cs8:cf32")
	assert.Equal(t, CF32, f)
	assert.Equal(t, "capture.cs8", path)
}

func Test_FromPathIsCaseInsensitive(t *testing.T) {
	f, _ := FromPath("capture.cu8")
	assert.Equal(t, CU8, f)
}

func Test_FromPathLegacyAliases(t *testing.T) {
	cases := map[string]Format{
		"x.DATA":       CU8,
		"x.CFILE":      CF32,
		"x.COMPLEX16U": CU8,
		"x.COMPLEX16S": CS8,
		"x.COMPLEX":    CF32,
	}
	for path, want := range cases {
		f, _ := FromPath(path)
		assert.Equal(t, want, f, "path %s", path)
	}
}

func Test_FromPathWindowsDriveLetterIsNotAnAnnotation(t *testing.T) {
	f, path := FromPath(`C:\data\capture.cs16`)
	assert.Equal(t, CS16, f)
	assert.Equal(t, `C:\data\capture.cs16`, path)
}

// Format round-trip: format_from_path(fmt_to_path(fmt)) == fmt for all
// fourteen canonical formats.
func Test_FormatRoundTrip(t *testing.T) {
	for _, f := range allFormats {
		path := "signal." + f.String()
		got, _ := FromPath(path)
		assert.Equal(t, f, got, "round trip for %s", f)
	}
}
