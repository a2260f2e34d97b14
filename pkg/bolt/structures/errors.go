package structures

import "github.com/nexusgraph/bolt-go/pkg/bolt"

func newErr(code bolt.Code, msg string) error {
	return &bolt.Error{Code: code, Msg: msg}
}
