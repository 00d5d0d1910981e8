package response

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"payhub/internal/domain/entities"
)

func TestFromPaymentRecords(t *testing.T) {
	now := time.Now().UTC()
	res := FromPaymentRecords([]entities.PaymentRecord{{
		ID:               "gopay_1",
		GatewayPaymentID: "gp-1",
		Gateway:          entities.GatewayGoPay,
		Amount:           3000,
		Currency:         "CZK",
		Status:           entities.PaymentStatusPending,
		SessionID:        "gp-1",
		CreatedAt:        now,
		UpdatedAt:        now,
	}})

	if !res.Success || len(res.Payments) != 1 {
		t.Fatalf("unexpected response %+v", res)
	}
	p := res.Payments[0]
	if p.Gateway != "gopay" || p.Status != "pending" || p.SessionID != "gp-1" || !p.CreatedAt.Equal(now) {
		t.Fatalf("unexpected payment %+v", p)
	}

	b, _ := json.Marshal(p)
	for _, key := range []string{`"gatewayPaymentId"`, `"sessionId"`, `"createdAt"`} {
		if !strings.Contains(string(b), key) {
			t.Fatalf("expected camelCase key %s in %s", key, b)
		}
	}
}

func TestFromPaymentRecords_Empty(t *testing.T) {
	b, _ := json.Marshal(FromPaymentRecords(nil))
	if string(b) != `{"success":true,"payments":[]}` {
		t.Fatalf("expected empty array, got %s", b)
	}
}

func TestFromCreationResult(t *testing.T) {
	failed := FromCreationResult(entities.FailedCreation("declined"))
	b, _ := json.Marshal(failed)
	if string(b) != `{"success":false,"paymentId":"","error":"declined"}` {
		t.Fatalf("unexpected failure body %s", b)
	}
}
