package harvest_test

import (
	"testing"

	"github.com/scrapeworks/harvest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitKind_Tag_returns_stable_bracketed_markers(t *testing.T) {
	t.Parallel()

	// These tags are the interchange format; they must not drift.
	assert.Equal(t, "[HEADING]", harvest.UnitHeading.Tag())
	assert.Equal(t, "[PARAGRAPH]", harvest.UnitParagraph.Tag())
	assert.Equal(t, "[LIST_ITEM]", harvest.UnitListItem.Tag())
	assert.Equal(t, "[EXTERNAL_LINK]", harvest.UnitExternalLink.Tag())
	assert.Equal(t, "[INTERNAL_LINK]", harvest.UnitInternalLink.Tag())
	assert.Equal(t, "[IMAGE]", harvest.UnitImageRef.Tag())
	assert.Equal(t, "[DOCUMENT]", harvest.UnitDocumentRef.Tag())
	assert.Equal(t, "[ARTICLE_BODY]", harvest.UnitArticleBody.Tag())
	assert.Equal(t, "[DESCRIPTION]", harvest.UnitDescription.Tag())
	assert.Equal(t, "[ERROR]", harvest.UnitError.Tag())
}

func TestExcludeSet_filters_by_category(t *testing.T) {
	t.Parallel()

	text := harvest.ExcludeSet{Text: true}
	assert.True(t, text.Excludes(harvest.UnitParagraph))
	assert.True(t, text.Excludes(harvest.UnitHeading))
	assert.True(t, text.Excludes(harvest.UnitArticleBody))
	assert.False(t, text.Excludes(harvest.UnitExternalLink))

	links := harvest.ExcludeSet{Links: true}
	assert.True(t, links.Excludes(harvest.UnitInternalLink))
	assert.True(t, links.Excludes(harvest.UnitDocumentRef))
	assert.False(t, links.Excludes(harvest.UnitImageRef))

	images := harvest.ExcludeSet{Images: true}
	assert.True(t, images.Excludes(harvest.UnitImageRef))
	assert.False(t, images.Excludes(harvest.UnitParagraph))

	// Error units always pass through.
	all := harvest.ExcludeSet{Text: true, Links: true, Images: true}
	assert.False(t, all.Excludes(harvest.UnitError))
}

func TestParseExcludeSet(t *testing.T) {
	t.Parallel()

	set, err := harvest.ParseExcludeSet([]string{"text", " Links "})
	require.NoError(t, err)
	assert.True(t, set.Text)
	assert.True(t, set.Links)
	assert.False(t, set.Images)

	_, err = harvest.ParseExcludeSet([]string{"videos"})
	require.Error(t, err)
	assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
}
