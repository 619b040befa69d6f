package httpexec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToCurl(t *testing.T) {
	t.Parallel()

	t.Run("get without body", func(t *testing.T) {
		t.Parallel()

		out := ToCurl(Request{Method: "get", URL: "https://jsonplaceholder.typicode.com/posts/1"})
		assert.Equal(t, "curl -X GET https://jsonplaceholder.typicode.com/posts/1", out)
	})

	t.Run("post with body and headers", func(t *testing.T) {
		t.Parallel()

		out := ToCurl(Request{
			Method:  "POST",
			URL:     "https://jsonplaceholder.typicode.com/posts",
			Headers: map[string]string{"X-Tenant": "fin tech"},
			Body:    map[string]interface{}{"purpose": "Business Expansion"},
		})

		assert.Contains(t, out, "curl -X POST")
		assert.Contains(t, out, "-H 'Content-Type: application/json'")
		assert.Contains(t, out, "-H 'X-Tenant: fin tech'")
		assert.Contains(t, out, `-d '{"purpose":"Business Expansion"}'`)
	})

	t.Run("url with query is quoted", func(t *testing.T) {
		t.Parallel()

		out := ToCurl(Request{URL: "https://example.com/comments?postId=1&x=2"})
		assert.Contains(t, out, "'https://example.com/comments?postId=1&x=2'")
	})
}
