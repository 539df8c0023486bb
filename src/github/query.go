package github

import (
	"net/url"
	"strconv"
	"strings"
)

// apiQuery builds a request query string. Parameters appear in the order
// they were added, absent values never produce a key, and booleans
// serialize as "true" or "false". Zero is the absent value for the
// numeric adders because every numeric query parameter on this API is
// positive (pages, sizes, identifiers).
type apiQuery struct {
	pairs []queryPair
}

type queryPair struct {
	key   string
	value string
}

func (q *apiQuery) addString(key, value string) {
	if value == "" {
		return
	}
	q.pairs = append(q.pairs, queryPair{key, value})
}

func (q *apiQuery) addInt(key string, value int) {
	if value == 0 {
		return
	}
	q.pairs = append(q.pairs, queryPair{key, strconv.Itoa(value)})
}

func (q *apiQuery) addInt64(key string, value int64) {
	if value == 0 {
		return
	}
	q.pairs = append(q.pairs, queryPair{key, strconv.FormatInt(value, 10)})
}

// addBool serializes a set boolean as "true" or "false". A nil pointer
// means the caller did not supply the parameter.
func (q *apiQuery) addBool(key string, value *bool) {
	if value == nil {
		return
	}
	q.pairs = append(q.pairs, queryPair{key, strconv.FormatBool(*value)})
}

// encode renders the accumulated pairs as a percent-encoded query string
// without the leading "?". Returns "" when nothing was added.
func (q *apiQuery) encode() string {
	if len(q.pairs) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range q.pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}

// appendTo joins the query string onto a request path, leaving the path
// untouched when no parameters were added.
func (q *apiQuery) appendTo(path string) string {
	encoded := q.encode()
	if encoded == "" {
		return path
	}
	return path + "?" + encoded
}
