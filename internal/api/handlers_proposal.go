package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dcortezh/propgen/internal/formatter"
	"github.com/dcortezh/propgen/internal/generate"
	"github.com/dcortezh/propgen/internal/vectorstore"
)

const maxProposalBodyBytes = 64 * 1024

// handleProposal runs the full generation flow: validate the form,
// retrieve knowledge-base context, generate the proposal, format it as
// HTML, and send the email copy.
func (s *Server) handleProposal(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxProposalBodyBytes)

	var req generate.ProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	log := s.log.With("company", req.Company)

	// Retrieval failure degrades to generation without context rather
	// than failing the whole request.
	var snippets []vectorstore.Snippet
	query := retrievalQuery(req)
	snippets, err := s.orchestrator.Store().Search(ctx, query, s.cfg.RetrievalK)
	if err != nil {
		log.Warn("knowledge-base search failed, generating without context", "error", err)
		snippets = nil
	}

	text, err := s.gen.GenerateProposal(ctx, req, vectorstore.ContextTexts(snippets))
	if err != nil {
		log.Error("proposal generation failed", "error", err)
		jsonError(w, "proposal generation failed", http.StatusBadGateway)
		return
	}

	html := formatter.Format(text)

	emailSent := false
	if s.mail != nil {
		if err := s.mail.SendProposal(ctx, req.Email, req.Company, text, html); err != nil {
			log.Warn("proposal email delivery failed", "error", err, "to", req.Email)
		} else {
			emailSent = true
		}
	}

	log.Info("proposal generated",
		"snippets", len(snippets),
		"chars", len(text),
		"email_sent", emailSent,
	)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"proposal_text": text,
		"proposal_html": html,
		"email_sent":    emailSent,
	})
}

// retrievalQuery condenses the form fields into a similarity-search
// query over the knowledge base.
func retrievalQuery(req generate.ProposalRequest) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{req.Industry, req.Goals, req.Audience, req.Company} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ". ")
}
