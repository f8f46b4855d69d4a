package extract

import (
	"strings"
	"testing"
)

func BenchmarkFromHTML(b *testing.B) {
	small := []byte("<html><head><title>t</title></head><body><p>a</p></body></html>")
	medium := makeHTML(50)
	large := makeHTML(400)

	for _, bc := range []struct {
		name string
		data []byte
	}{{"small", small}, {"medium", medium}, {"large", large}} {
		b.Run(bc.name, func(b *testing.B) {
			b.SetBytes(int64(len(bc.data)))
			for i := 0; i < b.N; i++ {
				if _, err := FromHTML(bc.data, Options{}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func makeHTML(articles int) []byte {
	builder := new(strings.Builder)
	builder.WriteString("<html><head><title>Factiva</title></head><body>")
	for i := 0; i < articles; i++ {
		builder.WriteString(`<div class="article"><p>Headline</p><p>512 words</p><p>`)
		builder.WriteString(sampleText)
		builder.WriteString("</p></div><hr/>")
	}
	builder.WriteString("</body></html>")
	return []byte(builder.String())
}

const sampleText = "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua."
