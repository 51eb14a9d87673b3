package semaphore

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
)

// Response is the untouched answer of the gateway.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r Response) String() string {
	return string(r.Body)
}

// Decode unmarshals the json body into v. The client never calls this itself,
// it is provided for callers that know the shape of the payload.
func (r Response) Decode(v interface{}) error {
	return errors.Wrap(json.Unmarshal(r.Body, v), "Failed to decode semaphore response")
}
