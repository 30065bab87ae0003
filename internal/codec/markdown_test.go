package codec_test

import (
	"strings"
	"testing"

	"github.com/KaramelBytes/resumekit/internal/codec"
	"github.com/KaramelBytes/resumekit/internal/resume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct{ Title, Content string }

func pairs(r resume.Resume) []pair {
	out := make([]pair, len(r.Sections))
	for i, s := range r.Sections {
		out[i] = pair{s.Title, s.Content}
	}
	return out
}

func TestEncodeExample(t *testing.T) {
	r := resume.Resume{
		Name:     "Jane Doe",
		Sections: []resume.Section{{ID: "s1", Title: "Skills", Content: "Go, Rust"}},
	}
	assert.Equal(t, "# Jane Doe\n\n## Skills\n\nGo, Rust\n\n", codec.Encode(r))
}

func TestEncodeIgnoresVolatileFields(t *testing.T) {
	a := resume.New()
	b := a.Clone()
	b.ID = "other"
	b.LastUpdated = b.LastUpdated.Add(1e9)
	for i := range b.Sections {
		b.Sections[i].ID = "x"
	}
	assert.Equal(t, codec.Encode(a), codec.Encode(b))
}

func TestDecodeExample(t *testing.T) {
	r := codec.Decode("# Jane Doe\n\n## Skills\n\nGo, Rust\n\n")
	assert.Equal(t, "Jane Doe", r.Name)
	assert.Equal(t, []pair{{"Skills", "Go, Rust"}}, pairs(r))
	require.NoError(t, r.Validate())
}

func TestRoundTripKeepsContentNotIDs(t *testing.T) {
	docs := []resume.Resume{
		resume.New(),
		{
			ID:   "r1",
			Name: "Ada Lovelace",
			Sections: []resume.Section{
				{ID: "a", Title: "Summary", Content: "Analyst.\n\nLikes engines."},
				{ID: "b", Title: "Experience", Content: "- Notes on the Analytical Engine\n- # not a heading once inside"},
				{ID: "c", Title: "Empty", Content: ""},
				{ID: "d", Title: "", Content: "untitled body"},
			},
		},
	}
	for _, d := range docs {
		got := codec.Decode(codec.Encode(d))
		assert.Equal(t, d.Name, got.Name)
		assert.Equal(t, pairs(d), pairs(got))
		assert.NotEqual(t, d.ID, got.ID)
		for i := range d.Sections {
			assert.NotEqual(t, d.Sections[i].ID, got.Sections[i].ID)
		}
	}
}

func TestDecodeWithoutSectionHeadings(t *testing.T) {
	inputs := []string{
		"just some text\nacross lines\n\n",
		"# Name Only\n\nbody without sections",
		"   ",
		"",
	}
	for _, in := range inputs {
		r := codec.Decode(in)
		require.Len(t, r.Sections, 1, in)
		assert.Equal(t, codec.FallbackSectionTitle, r.Sections[0].Title)
		assert.Equal(t, strings.TrimSpace(in), r.Sections[0].Content)
	}
}

func TestDecodeNameRules(t *testing.T) {
	r := codec.Decode("## First\n\nbody\n# Late Title\n")
	assert.Equal(t, codec.DefaultImportName, r.Name, "level-1 heading after a section is content")
	assert.Equal(t, "body\n# Late Title", r.Sections[0].Content)

	r = codec.Decode("#  Spaced Name  \n# Second\n## S\nx")
	assert.Equal(t, "Spaced Name", r.Name)

	r = codec.DecodeNamed("## S\nx", "cv_2024")
	assert.Equal(t, "cv_2024", r.Name)
}

func TestDecodeDropsPreamble(t *testing.T) {
	r := codec.Decode("# Jane\nstray preamble\n\n##  Skills  \n\n  Go  \n\n\n")
	assert.Equal(t, []pair{{"Skills", "Go"}}, pairs(r))
}

func TestDecodeNormalizesLineEndings(t *testing.T) {
	r := codec.Decode("# Jane\r\n\r\n## Skills\r\n\r\nGo\r\nRust\r\n")
	assert.Equal(t, "Jane", r.Name)
	assert.Equal(t, []pair{{"Skills", "Go\nRust"}}, pairs(r))
}

func TestDecodeHashWithoutSpaceIsText(t *testing.T) {
	r := codec.Decode("## Links\n#hashtag\n##nospace\n")
	assert.Equal(t, []pair{{"Links", "#hashtag\n##nospace"}}, pairs(r))
}
