package httpexec

import (
	"sort"
	"strings"

	"github.com/alessio/shellescape"
)

// ToCurl renders a request as a copy-pasteable curl command.
func ToCurl(req Request) string {
	var b strings.Builder

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = "GET"
	}

	b.WriteString("curl -X ")
	b.WriteString(method)

	names := make([]string, 0, len(req.Headers))
	for name := range req.Headers {
		names = append(names, name)
	}
	sort.Strings(names)

	payload, err := encodeBody(req.Body)
	if err == nil && payload != nil {
		if _, ok := req.Headers[headerContentType]; !ok {
			b.WriteString(" -H " + shellescape.Quote(headerContentType+": "+contentTypeJSON))
		}
	}

	for _, name := range names {
		b.WriteString(" -H " + shellescape.Quote(name+": "+req.Headers[name]))
	}

	if err == nil && payload != nil {
		b.WriteString(" -d " + shellescape.Quote(string(payload)))
	}

	b.WriteString(" " + shellescape.Quote(req.URL))

	return b.String()
}
