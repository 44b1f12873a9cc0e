package resolve

import (
	"net/url"
	"strconv"
)

// QueryPagination builds a continuation that advances a query parameter,
// turning http://host/list into http://host/list?param=2, ?param=3, and
// so on. maxPages caps the chain length; the continuation returns an
// empty URL once nextIndex exceeds it. A maxPages of 0 means no cap.
//
// Malformed previous URLs end the chain instead of erroring: pagination
// is an optional refinement and a URL the stdlib cannot parse will not
// fetch either.
func QueryPagination(param string, maxPages int) NextPageFunc {
	return func(previousURL string, nextIndex int) string {
		if maxPages > 0 && nextIndex > maxPages {
			return ""
		}

		u, err := url.Parse(previousURL)
		if err != nil {
			return ""
		}

		q := u.Query()
		q.Set(param, strconv.Itoa(nextIndex))
		u.RawQuery = q.Encode()

		return u.String()
	}
}
