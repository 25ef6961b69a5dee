package authhandler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dailypay/internal/domain/auth"
)

func TestHandleToken(t *testing.T) {
	hash, err := auth.HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h := NewHandler("secret", "op-1", hash, time.Hour)

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "valid", body: `{"operatorId":"op-1","password":"hunter22"}`, want: http.StatusOK},
		{name: "wrong password", body: `{"operatorId":"op-1","password":"nope"}`, want: http.StatusUnauthorized},
		{name: "other operator", body: `{"operatorId":"op-2","password":"hunter22"}`, want: http.StatusUnauthorized},
		{name: "missing fields", body: `{}`, want: http.StatusBadRequest},
		{name: "bad json", body: `{`, want: http.StatusBadRequest},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", bytes.NewBufferString(tc.body))
			rec := httptest.NewRecorder()
			h.HandleToken(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
			if tc.want != http.StatusOK {
				return
			}
			var env struct {
				Data tokenResponse `json:"data"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			claims, err := auth.ParseToken("secret", env.Data.Token)
			if err != nil {
				t.Fatalf("parse token: %v", err)
			}
			if claims.OperatorID != "op-1" {
				t.Fatalf("unexpected operator %q", claims.OperatorID)
			}
		})
	}
}
