// Copyright (c) 2025 Kossi Gaba.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kossiga/univote/academic"
	"github.com/kossiga/univote/cliparse"
	"github.com/kossiga/univote/eligibility"
	"github.com/kossiga/univote/middleware"
	"github.com/kossiga/univote/models"
	"github.com/kossiga/univote/tabulation"
	"github.com/kossiga/univote/voting"
)

type VoteHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	tokens   *voting.TokenManager
	ledger   *voting.Ledger
	resolver *eligibility.Resolver
}

func NewVoteHandler(db *sql.DB, cfg cliparse.Config) *VoteHandler {
	tokens := voting.NewTokenManager(db)
	return &VoteHandler{
		db:       db,
		cfg:      cfg,
		tokens:   tokens,
		ledger:   voting.NewLedger(db, tokens),
		resolver: &eligibility.Resolver{UniversityDelegatesOnly: cfg.UniversityDelegatesOnly},
	}
}

// GetToken handles GET /vote/token/{electionId} (authenticated)
// Eligible students get their token for the election; calling again
// before expiry returns the same token.
func (h *VoteHandler) GetToken(w http.ResponseWriter, r *http.Request) {
	claims := middleware.SessionClaims(r)

	election, err := getElection(h.db, r.PathValue("electionId"))
	if err != nil {
		votingError(w, err)
		return
	}

	student, err := getStudentByAccount(h.db, claims.AccountID)
	if err != nil {
		if errors.Is(err, voting.ErrNotFound) {
			votingError(w, voting.ErrNotEligible)
			return
		}
		slog.Error("failed to load student", "error", err, "account_id", claims.AccountID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}

	if !h.resolver.Eligible(student, election) {
		votingError(w, voting.ErrNotEligible)
		return
	}

	token, err := h.tokens.IssueOrGet(r.Context(), claims.AccountID, election)
	if err != nil {
		votingError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteTokenResponse{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
		Election: models.ElectionInfo{
			ID:    election.ID,
			Titre: election.Titre,
			Type:  election.Type,
		},
	})
}

// Cast handles POST /vote
// The vote token is the credential; no session is required. The ballot
// stays secret: the response never echoes the candidate back.
func (h *VoteHandler) Cast(w http.ResponseWriter, r *http.Request) {
	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.ElectionID == "" || req.CandidateID == "" || req.VoteToken == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Élection, candidat et jeton de vote requis")
		return
	}

	if err := h.ledger.Cast(r.Context(), req.ElectionID, req.CandidateID, req.VoteToken); err != nil {
		votingError(w, err)
		return
	}

	slog.Info("vote cast", "election_id", req.ElectionID)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "Vote enregistré",
	})
}

// Results handles GET /vote/results/{electionId} (public)
func (h *VoteHandler) Results(w http.ResponseWriter, r *http.Request) {
	election, err := getElection(h.db, r.PathValue("electionId"))
	if err != nil {
		votingError(w, err)
		return
	}

	candidates, err := h.listCandidateRefs(election.ID)
	if err != nil {
		slog.Error("failed to query candidates", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}

	ballots, err := h.listBallots(election.ID)
	if err != nil {
		slog.Error("failed to query ballots", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}

	policy := tabulation.ResponsablePolicy{Ecole: scopeEcole(election)}
	scores := tabulation.Compute(candidates, ballots, policy)

	var tokensIssued int
	err = h.db.QueryRow(`SELECT COUNT(*) FROM vote_token WHERE election_id = $1`, election.ID).Scan(&tokensIssued)
	if err != nil {
		slog.Error("failed to count tokens", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}

	votesA, votesB := 0, 0
	for _, b := range ballots {
		if policy.Classify(b.Voter) == tabulation.Responsables {
			votesA++
		} else {
			votesB++
		}
	}

	results := models.ElectionResults{
		Election: models.ElectionInfo{
			ID:    election.ID,
			Titre: election.Titre,
			Type:  election.Type,
		},
		Statistiques: models.ElectionStatistics{
			TotalVotes:        len(ballots),
			VotesResponsables: votesA,
			VotesEtudiants:    votesB,
			TotalInscrits:     tokensIssued,
			TauxParticipation: tabulation.Round2(tabulation.Participation(len(ballots), tokensIssued)),
		},
		Resultats: make([]models.CandidateResult, len(scores)),
	}

	for i, s := range scores {
		results.Resultats[i] = models.CandidateResult{
			CandidateID: s.CandidateID,
			Nom:         s.Nom,
			Prenom:      s.Prenom,
			ScoreFinal:  tabulation.Round2(s.Score),
			Details: models.ResultDetails{
				VotesResponsables:       s.VotesA,
				VotesEtudiants:          s.VotesB,
				TotalVotes:              s.VotesA + s.VotesB,
				PourcentageResponsables: tabulation.Round2(s.PctA),
				PourcentageEtudiants:    tabulation.Round2(s.PctB),
			},
		}
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}

// Status handles GET /vote/status/{electionId} (authenticated)
func (h *VoteHandler) Status(w http.ResponseWriter, r *http.Request) {
	claims := middleware.SessionClaims(r)
	electionID := r.PathValue("electionId")

	if _, err := getElection(h.db, electionID); err != nil {
		votingError(w, err)
		return
	}

	voted, err := h.ledger.HasVoted(r.Context(), claims.AccountID, electionID)
	if err != nil {
		slog.Error("failed to query vote status", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erreur interne")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteStatusResponse{
		HasVoted:   voted,
		ElectionID: electionID,
	})
}

// listCandidateRefs returns the election's candidates in insertion
// order, which doubles as the tie-break order for ranking.
func (h *VoteHandler) listCandidateRefs(electionID string) ([]tabulation.CandidateRef, error) {
	rows, err := h.db.Query(`
		SELECT id, nom, prenom
		FROM candidate
		WHERE election_id = $1
		ORDER BY created_at
	`, electionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []tabulation.CandidateRef
	for rows.Next() {
		var c tabulation.CandidateRef
		if err := rows.Scan(&c.ID, &c.Nom, &c.Prenom); err != nil {
			return nil, err
		}
		refs = append(refs, c)
	}
	return refs, rows.Err()
}

// listBallots joins the vote ledger with voter attributes. A vote by an
// account without a student row counts in the general constituency.
func (h *VoteHandler) listBallots(electionID string) ([]tabulation.Ballot, error) {
	rows, err := h.db.Query(`
		SELECT v.candidate_id, s.responsable_salle, s.ecole, s.filiere
		FROM vote v
		LEFT JOIN student s ON s.account_id = v.account_id
		WHERE v.election_id = $1
	`, electionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ballots []tabulation.Ballot
	for rows.Next() {
		var candidateID string
		var responsable sql.NullBool
		var ecole, filiere sql.NullString
		if err := rows.Scan(&candidateID, &responsable, &ecole, &filiere); err != nil {
			return nil, err
		}

		voter := tabulation.Voter{
			ResponsableSalle: responsable.Valid && responsable.Bool,
			Ecole:            ecole.String,
		}
		if voter.Ecole == "" && filiere.Valid {
			voter.Ecole = academic.SchoolForFiliere(filiere.String)
		}
		ballots = append(ballots, tabulation.Ballot{CandidateID: candidateID, Voter: voter})
	}
	return ballots, rows.Err()
}

// scopeEcole resolves which school a representative role must belong to
// for the 60% constituency. University-wide elections accept any school.
func scopeEcole(election models.Election) string {
	switch election.Type {
	case models.TypeEcole:
		if election.Ecole != nil {
			return *election.Ecole
		}
	case models.TypeSalle:
		if election.Filiere != nil {
			return academic.SchoolForFiliere(*election.Filiere)
		}
	}
	return ""
}
