package proxy

import (
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// AliasID rewrites the backend's "_id" field to "id" in a JSON object or a
// top-level array of objects. A record that already carries "id" keeps it;
// "_id" is dropped either way. Non-JSON or scalar bodies pass through
// untouched.
func AliasID(body []byte) []byte {
	parsed := gjson.ParseBytes(body)
	switch {
	case parsed.IsObject():
		return aliasAt(body, "")
	case parsed.IsArray():
		n := len(parsed.Array())
		for i := 0; i < n; i++ {
			body = aliasAt(body, strconv.Itoa(i)+".")
		}
		return body
	default:
		return body
	}
}

func aliasAt(body []byte, prefix string) []byte {
	mongo := gjson.GetBytes(body, prefix+"_id")
	if !mongo.Exists() {
		return body
	}
	if !gjson.GetBytes(body, prefix+"id").Exists() {
		updated, err := sjson.SetRawBytes(body, prefix+"id", []byte(mongo.Raw))
		if err != nil {
			return body
		}
		body = updated
	}
	updated, err := sjson.DeleteBytes(body, prefix+"_id")
	if err != nil {
		return body
	}
	return updated
}
