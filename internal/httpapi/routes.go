package httpapi

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"decision-review-api/internal/intake"
	"decision-review-api/internal/model"
	"decision-review-api/internal/store"
)

const (
	basePath     = "/api/v3/decision_reviews/higher_level_reviews"
	maxBodyBytes = 10 << 20
)

// Reviews runs validated submissions through the intake workflow.
type Reviews interface {
	Submit(ctx context.Context, res *intake.Result) (*store.Intake, error)
	Status(ctx context.Context, id string) (*store.Intake, error)
	Get(ctx context.Context, id string) (*store.Intake, []store.RequestIssue, error)
}

// RejectionPublisher records submissions that failed validation.
type RejectionPublisher interface {
	PublishIntakeRejected(ctx context.Context, evt model.IntakeRejected) error
}

// Handler serves the higher level review intake API.
type Handler struct {
	reviews    Reviews
	rejections RejectionPublisher
}

// NewHandler builds a Handler.
func NewHandler(reviews Reviews, rejections RejectionPublisher) *Handler {
	return &Handler{reviews: reviews, rejections: rejections}
}

// RegisterRoutes wires HTTP routes.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	r.HandleFunc(basePath, h.createHandler).Methods(http.MethodPost)
	r.HandleFunc(basePath+"/intake_status/{uuid}", h.statusHandler).Methods(http.MethodGet)
	r.HandleFunc(basePath+"/{uuid}", h.showHandler).Methods(http.MethodGet)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// createHandler validates a higher level review and, when every request issue
// passes, runs it through start, review and complete.
func (h *Handler) createHandler(w http.ResponseWriter, r *http.Request) {
	reader := io.Reader(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if enc := r.Header.Get("Content-Encoding"); strings.EqualFold(enc, "gzip") {
		gr, err := gzip.NewReader(reader)
		if err != nil {
			writeErrors(w, intake.ErrorFor(intake.CodeMalformedRequest))
			return
		}
		defer gr.Close()
		// The decompressed stream gets the same cap as the raw body.
		reader = io.LimitReader(gr, maxBodyBytes+1)
	}

	body, err := io.ReadAll(reader)
	if err != nil || len(body) > maxBodyBytes {
		writeErrors(w, intake.ErrorFor(intake.CodeMalformedRequest))
		return
	}
	req, err := intake.Parse(body)
	if err != nil {
		log.Printf("HLR intake: %v", err)
		writeErrors(w, intake.ErrorFor(intake.CodeMalformedRequest))
		return
	}

	ctx := r.Context()
	res := intake.Process(req)
	if res.HasErrors() {
		h.publishRejection(ctx, req, res.Errors)
		writeErrors(w, res.Errors...)
		return
	}

	in, err := h.reviews.Submit(ctx, res)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Location", basePath+"/intake_status/"+in.UUID)
	writeJSON(w, http.StatusAccepted, statusDocument(in))
}

// publishRejection is fire-and-forget.
func (h *Handler) publishRejection(ctx context.Context, req *intake.IntakeRequest, errs []intake.ValidationError) {
	evt := model.IntakeRejected{
		VeteranFileNumber: req.VeteranFileNumber,
		BenefitType:       req.BenefitType,
		Errors:            make([]model.ErrorObject, 0, len(errs)),
		Timestamp:         time.Now().UTC().Format(time.RFC3339Nano),
	}
	for _, e := range errs {
		evt.Errors = append(evt.Errors, model.ErrorObject{Status: e.Status, Code: e.Code, Title: e.Title})
	}
	if err := h.rejections.PublishIntakeRejected(ctx, evt); err != nil {
		log.Printf("HLR intake: publish rejection for %s: %v", req.VeteranFileNumber, err)
	}
}

func (h *Handler) statusHandler(w http.ResponseWriter, r *http.Request) {
	in, err := h.reviews.Status(r.Context(), mux.Vars(r)["uuid"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusDocument(in))
}

func (h *Handler) showHandler(w http.ResponseWriter, r *http.Request) {
	in, issues, err := h.reviews.Get(r.Context(), mux.Vars(r)["uuid"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviewDocument(in, issues))
}

type resource struct {
	Type       string `json:"type"`
	ID         string `json:"id,omitempty"`
	Attributes any    `json:"attributes"`
}

type document struct {
	Data     resource   `json:"data"`
	Included []resource `json:"included,omitempty"`
}

type statusAttributes struct {
	Status    store.IntakeStatus `json:"status"`
	ErrorCode string             `json:"error_code,omitempty"`
}

type reviewAttributes struct {
	Status              store.IntakeStatus `json:"status"`
	VeteranFileNumber   string             `json:"veteranFileNumber"`
	BenefitType         string             `json:"benefitType"`
	ReceiptDate         string             `json:"receiptDate,omitempty"`
	InformalConference  bool               `json:"informalConference"`
	SameOffice          bool               `json:"sameOffice"`
	LegacyOptInApproved bool               `json:"legacyOptInApproved"`
	Claimant            string             `json:"claimant,omitempty"`
	PayeeCode           string             `json:"payeeCode,omitempty"`
}

func statusDocument(in *store.Intake) document {
	return document{Data: resource{
		Type:       "IntakeStatus",
		ID:         in.UUID,
		Attributes: statusAttributes{Status: in.Status, ErrorCode: in.ErrorCode},
	}}
}

func reviewDocument(in *store.Intake, issues []store.RequestIssue) document {
	doc := document{Data: resource{
		Type: "HigherLevelReview",
		ID:   in.UUID,
		Attributes: reviewAttributes{
			Status:              in.Status,
			VeteranFileNumber:   in.VeteranFileNumber,
			BenefitType:         in.BenefitType,
			ReceiptDate:         in.ReceiptDate,
			InformalConference:  in.InformalConference,
			SameOffice:          in.SameOffice,
			LegacyOptInApproved: in.LegacyOptInApproved,
			Claimant:            in.ClaimantParticipantID,
			PayeeCode:           in.PayeeCode,
		},
	}}
	for _, iss := range issues {
		doc.Included = append(doc.Included, resource{Type: "RequestIssue", Attributes: iss.Attributes})
	}
	return doc
}

// writeError renders err as an error document. Anything that is not a
// ValidationError is logged and reported as unknown_error with status 500.
func writeError(w http.ResponseWriter, err error) {
	var ve intake.ValidationError
	if errors.As(err, &ve) {
		writeErrors(w, ve)
		return
	}
	log.Printf("HLR intake: %v", err)
	unknown := intake.UnknownError
	unknown.Status = http.StatusInternalServerError
	writeErrors(w, unknown)
}

// writeErrors responds with the status of the first error and the full list.
func writeErrors(w http.ResponseWriter, errs ...intake.ValidationError) {
	writeJSON(w, errs[0].Status, map[string][]intake.ValidationError{"errors": errs})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("HLR intake: encode response: %v", err)
	}
}
