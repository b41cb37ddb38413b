package kstream

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"decision-review-api/internal/model"
)

type recordingWriter struct {
	got []model.IntakeRejected
	err error
}

func (w *recordingWriter) WriteRejection(_ context.Context, evt model.IntakeRejected) error {
	w.got = append(w.got, evt)
	return w.err
}

func TestCompletedMessage(t *testing.T) {
	evt := model.IntakeCompleted{IntakeUUID: "u-1", VeteranFileNumber: "123456789", BenefitType: "pension", IssueCount: 2}
	msg, err := completedMessage(evt)
	if err != nil {
		t.Fatalf("completedMessage: %v", err)
	}
	if string(msg.Key) != "123456789" {
		t.Errorf("Key = %q, want file number", msg.Key)
	}
	var back model.IntakeCompleted
	if err := json.Unmarshal(msg.Value, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != evt {
		t.Errorf("value = %+v, want %+v", back, evt)
	}
	if msg.Time.IsZero() {
		t.Error("Time should be set")
	}
}

func TestRejectedMessage(t *testing.T) {
	evt := model.IntakeRejected{
		VeteranFileNumber: "987654321",
		Errors:            []model.ErrorObject{{Status: 422, Code: "unknown_error", Title: "Unknown error"}},
	}
	msg, err := rejectedMessage(evt)
	if err != nil {
		t.Fatalf("rejectedMessage: %v", err)
	}
	if string(msg.Key) != "987654321" {
		t.Errorf("Key = %q", msg.Key)
	}
}

func TestHandleRejected(t *testing.T) {
	w := &recordingWriter{}
	value := []byte(`{"veteran_file_number":"123456789","benefit_type":"pension","errors":[{"status":422,"code":"unknown_contestation_type","title":"Unknown contestation type"}]}`)
	if err := handleRejected(context.Background(), w, value); err != nil {
		t.Fatalf("handleRejected: %v", err)
	}
	if len(w.got) != 1 || len(w.got[0].Errors) != 1 {
		t.Fatalf("got = %+v", w.got)
	}
	if w.got[0].Errors[0].Code != "unknown_contestation_type" {
		t.Errorf("code = %q", w.got[0].Errors[0].Code)
	}
}

func TestHandleRejected_Errors(t *testing.T) {
	w := &recordingWriter{}
	if err := handleRejected(context.Background(), w, []byte(`not json`)); err == nil {
		t.Error("expected unmarshal error")
	}
	if len(w.got) != 0 {
		t.Error("writer should not be called for bad payloads")
	}

	boom := errors.New("disk full")
	w = &recordingWriter{err: boom}
	err := handleRejected(context.Background(), w, []byte(`{"veteran_file_number":"1"}`))
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped disk full", err)
	}
}
