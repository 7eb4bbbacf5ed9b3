package ytdlp

import (
	"encoding/json"
	"os"

	"ytcomments/internal/services"
)

// InfoDocument is the part of a yt-dlp .info.json artifact the collector
// reads. Every other key, comment metadata included, is ignored so a type
// change in an unused field cannot fail the decode.
type InfoDocument struct {
	Comments []Comment `json:"comments"`
}

// Comment is a single comment as written by --write-comments.
type Comment struct {
	Text string `json:"text"`
}

// Texts returns the text of every comment in document order. Comments
// without text contribute an empty string.
func (d InfoDocument) Texts() []string {
	out := make([]string, 0, len(d.Comments))
	for _, c := range d.Comments {
		out = append(out, c.Text)
	}
	return out
}

// ReadInfo decodes the info artifact at path.
func ReadInfo(path string) (InfoDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return InfoDocument{}, services.Wrap(services.ErrNotFound, "ytdlp", "read info", path, err)
	}
	var doc InfoDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return InfoDocument{}, services.Wrap(services.ErrValidation, "ytdlp", "parse info", path, err)
	}
	return doc, nil
}
