package repository

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// attr is one attribute value in the DynamoDB JSON wire format, e.g. {"S":"x"}.
type attr map[string]any

type item map[string]attr

func (it item) str(name string) string {
	if a, ok := it[name]; ok {
		if s, ok := a["S"].(string); ok {
			return s
		}
	}
	return ""
}

// fakeDynamo implements the subset of the DynamoDB JSON API the payment repository uses:
// TransactWriteItems (conditional puts), GetItem, UpdateItem (pending-only condition),
// Query on the session index and Scan filtered by kind.
type fakeDynamo struct {
	mu    sync.Mutex
	items map[string]item
	fail  bool
}

func newFakeDynamo(t *testing.T) (*fakeDynamo, *dynamodb.Client) {
	t.Helper()
	f := &fakeDynamo{items: map[string]item{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	client := dynamodb.New(dynamodb.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(srv.URL),
		Credentials:  credentials.NewStaticCredentialsProvider("local", "local", ""),
		Retryer:      aws.NopRetryer{},
	})
	return f, client
}

func (f *fakeDynamo) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/x-amz-json-1.0")
	if f.fail {
		f.writeError(w, http.StatusInternalServerError, "InternalServerError", nil)
		return
	}

	op := strings.TrimPrefix(r.Header.Get("X-Amz-Target"), "DynamoDB_20120810.")
	var in map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		f.writeError(w, http.StatusBadRequest, "SerializationException", nil)
		return
	}

	switch op {
	case "TransactWriteItems":
		f.transactWrite(w, in)
	case "GetItem":
		var key item
		_ = json.Unmarshal(in["Key"], &key)
		out := map[string]any{}
		if it, ok := f.items[key.str("id")]; ok {
			out["Item"] = it
		}
		_ = json.NewEncoder(w).Encode(out)
	case "UpdateItem":
		f.updateItem(w, in)
	case "Query":
		var values item
		_ = json.Unmarshal(in["ExpressionAttributeValues"], &values)
		f.writeItems(w, func(it item) bool { return it.str("session_id") == values.str(":sid") })
	case "Scan":
		var values item
		_ = json.Unmarshal(in["ExpressionAttributeValues"], &values)
		f.writeItems(w, func(it item) bool { return it.str("kind") == values.str(":kind") })
	default:
		f.writeError(w, http.StatusBadRequest, "UnknownOperationException", nil)
	}
}

func (f *fakeDynamo) transactWrite(w http.ResponseWriter, in map[string]json.RawMessage) {
	var req []struct {
		Put struct {
			Item item `json:"Item"`
		} `json:"Put"`
	}
	_ = json.Unmarshal(in["TransactItems"], &req)

	reasons := make([]map[string]string, len(req))
	cancelled := false
	for i, ti := range req {
		reasons[i] = map[string]string{"Code": "None"}
		if _, exists := f.items[ti.Put.Item.str("id")]; exists {
			reasons[i] = map[string]string{"Code": "ConditionalCheckFailed", "Message": "The conditional request failed"}
			cancelled = true
		}
	}
	if cancelled {
		f.writeError(w, http.StatusBadRequest, "TransactionCanceledException", map[string]any{"CancellationReasons": reasons})
		return
	}
	for _, ti := range req {
		f.items[ti.Put.Item.str("id")] = ti.Put.Item
	}
	_, _ = w.Write([]byte(`{}`))
}

func (f *fakeDynamo) updateItem(w http.ResponseWriter, in map[string]json.RawMessage) {
	var (
		key    item
		values item
	)
	_ = json.Unmarshal(in["Key"], &key)
	_ = json.Unmarshal(in["ExpressionAttributeValues"], &values)

	it, exists := f.items[key.str("id")]
	if !exists {
		f.writeError(w, http.StatusBadRequest, "ConditionalCheckFailedException", nil)
		return
	}
	if it.str("status") != values.str(":pending") {
		f.writeError(w, http.StatusBadRequest, "ConditionalCheckFailedException", map[string]any{"Item": it})
		return
	}
	it["status"] = values[":status"]
	it["updated_at"] = values[":now"]
	_, _ = w.Write([]byte(`{}`))
}

func (f *fakeDynamo) writeItems(w http.ResponseWriter, match func(item) bool) {
	out := make([]item, 0)
	for _, it := range f.items {
		if match(it) {
			out = append(out, it)
		}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"Items": out, "Count": len(out), "ScannedCount": len(f.items)})
}

func (f *fakeDynamo) writeError(w http.ResponseWriter, status int, code string, extra map[string]any) {
	body := map[string]any{
		"__type":  "com.amazonaws.dynamodb.v20120810#" + code,
		"message": code,
	}
	for k, v := range extra {
		body[k] = v
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
