package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubEntryValidate(t *testing.T) {
	tests := []struct {
		name string
		item interface{ Validate() error }
		want error
	}{
		{"完整的本地化变体", Alternate{Hreflang: "en", Href: "https://example.com/en"}, nil},
		{"缺少 hreflang", Alternate{Href: "https://example.com/en"}, ErrIncompleteAlternate},
		{"缺少 href", Alternate{Hreflang: "en"}, ErrIncompleteAlternate},
		{"只有地址的图片", Image{URL: "https://example.com/a.png"}, nil},
		{"图片缺少地址", Image{Title: "Fachada"}, ErrIncompleteImage},
		{"完整的视频", Video{URL: "https://example.com/v.mp4", Title: "Demo", ThumbnailURL: "https://example.com/v.jpg"}, nil},
		{"视频缺少缩略图", Video{URL: "https://example.com/v.mp4", Title: "Demo"}, ErrIncompleteVideo},
		{"视频缺少标题", Video{URL: "https://example.com/v.mp4", ThumbnailURL: "https://example.com/v.jpg"}, ErrIncompleteVideo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
