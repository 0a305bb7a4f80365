package types

import (
	"encoding/json"
	"fmt"
)

// ContentTypeKind enumerates the known content categories.
type ContentTypeKind string

const (
	ContentMovie    ContentTypeKind = "movie"
	ContentTVShow   ContentTypeKind = "tv_show"
	ContentMusic    ContentTypeKind = "music"
	ContentSoftware ContentTypeKind = "software"
	ContentBook     ContentTypeKind = "book"
	ContentGame     ContentTypeKind = "game"
	ContentOther    ContentTypeKind = "other"
)

// ContentType is a closed sum over the known categories with an explicit
// escape hatch: unknown labels map to ContentOther and keep the original
// label in Label.
type ContentType struct {
	Kind  ContentTypeKind
	Label string // set only when Kind == ContentOther
}

// Movie reports whether the content type is a movie.
func (c ContentType) Movie() bool { return c.Kind == ContentMovie }

// TVShow reports whether the content type is a TV show.
func (c ContentType) TVShow() bool { return c.Kind == ContentTVShow }

// String returns the wire label for the content type.
func (c ContentType) String() string {
	if c.Kind == ContentOther && c.Label != "" {
		return c.Label
	}
	return string(c.Kind)
}

// Display returns a human-oriented name for prompts and logs.
func (c ContentType) Display() string {
	switch c.Kind {
	case ContentMovie:
		return "Movie"
	case ContentTVShow:
		return "TV Show"
	case ContentMusic:
		return "Music"
	case ContentSoftware:
		return "Software"
	case ContentBook:
		return "Book"
	case ContentGame:
		return "Game"
	default:
		if c.Label != "" {
			return c.Label
		}
		return "Content"
	}
}

// MarshalJSON encodes the content type as its wire label.
func (c ContentType) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts any string label; labels outside the known set
// become ContentOther with the label preserved. Generation output is not
// trusted to stay inside the enumeration.
func (c *ContentType) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		// Some models emit {"other": "anime"} style objects for the open arm.
		var obj map[string]string
		if objErr := json.Unmarshal(data, &obj); objErr == nil {
			if v, ok := obj["other"]; ok {
				*c = ContentType{Kind: ContentOther, Label: v}
				return nil
			}
		}
		return fmt.Errorf("content_type must be a string: %w", err)
	}

	switch ContentTypeKind(label) {
	case ContentMovie, ContentTVShow, ContentMusic, ContentSoftware, ContentBook, ContentGame:
		*c = ContentType{Kind: ContentTypeKind(label)}
	case ContentOther, "":
		*c = ContentType{Kind: ContentOther}
	default:
		*c = ContentType{Kind: ContentOther, Label: label}
	}
	return nil
}
