package models

import "time"

// Election type constants
const (
	TypeSalle      = "SALLE"
	TypeEcole      = "ECOLE"
	TypeUniversite = "UNIVERSITE"
)

// Account role constants
const (
	RoleEtudiant = "ETUDIANT"
	RoleAdmin    = "ADMIN"
)

// Request types

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Nom       string `json:"nom"`
	Prenom    string `json:"prenom"`
	Filiere   string `json:"filiere"`
	Annee     int    `json:"annee"`
	Code      string `json:"code,omitempty"`      // 1ère année
	Matricule string `json:"matricule,omitempty"` // 2ème année et plus
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type CreateElectionRequest struct {
	Type           string    `json:"type"`
	Titre          string    `json:"titre"`
	Description    string    `json:"description"`
	Filiere        string    `json:"filiere,omitempty"`
	Annee          int       `json:"annee,omitempty"`
	Ecole          string    `json:"ecole,omitempty"`
	CandidacyStart time.Time `json:"candidacyStart"`
	CandidacyEnd   time.Time `json:"candidacyEnd"`
	VoteStart      time.Time `json:"voteStart"`
	VoteEnd        time.Time `json:"voteEnd"`
}

type CandidacyRequest struct {
	ElectionID string `json:"electionId"`
	Nom        string `json:"nom"`
	Prenom     string `json:"prenom"`
	Programme  string `json:"programme,omitempty"`
}

type UpdateProgrammeRequest struct {
	Programme string `json:"programme"`
}

type GenerateCodesRequest struct {
	Count int `json:"count"`
}

type CastVoteRequest struct {
	ElectionID  string `json:"electionId"`
	CandidateID string `json:"candidateId"`
	VoteToken   string `json:"voteToken"`
}

// Response types

type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type GenerateCodesResponse struct {
	Message string   `json:"message"`
	Codes   []string `json:"codes"`
}

type CreateElectionResponse struct {
	Message      string `json:"message"`
	ElectionID   string `json:"electionId"`
	TokensIssued int    `json:"tokensIssued"`
}

type VoteTokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	Election  ElectionInfo `json:"election"`
}

type VoteStatusResponse struct {
	HasVoted   bool   `json:"hasVoted"`
	ElectionID string `json:"electionId"`
}

// Domain types

type Account struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // bcrypt hash, never exposed
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type Student struct {
	ID               string  `json:"id"`
	AccountID        *string `json:"accountId,omitempty"`
	Nom              string  `json:"nom"`
	Prenom           string  `json:"prenom"`
	Matricule        *string `json:"matricule,omitempty"`
	Filiere          string  `json:"filiere"`
	Annee            int     `json:"annee"`
	Ecole            string  `json:"ecole"`
	ResponsableSalle bool    `json:"responsableSalle"`
	DelegueEcole     bool    `json:"delegueEcole"`
}

type Election struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	Titre          string    `json:"titre"`
	Description    string    `json:"description"`
	Filiere        *string   `json:"filiere,omitempty"`
	Annee          *int      `json:"annee,omitempty"`
	Ecole          *string   `json:"ecole,omitempty"`
	CandidacyStart time.Time `json:"candidacyStart"`
	CandidacyEnd   time.Time `json:"candidacyEnd"`
	VoteStart      time.Time `json:"voteStart"`
	VoteEnd        time.Time `json:"voteEnd"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
}

// VotingOpen reports whether votes may be cast right now. The stored
// active flag and the voting window must both agree.
func (e *Election) VotingOpen(now time.Time) bool {
	return e.IsActive && !now.Before(e.VoteStart) && now.Before(e.VoteEnd)
}

// EffectivelyClosed treats an election past its voting window as closed
// even if an operator never flipped the active flag.
func (e *Election) EffectivelyClosed(now time.Time) bool {
	return !e.IsActive || !now.Before(e.VoteEnd)
}

// CandidacyOpen reports whether candidacies may still be submitted.
func (e *Election) CandidacyOpen(now time.Time) bool {
	return e.IsActive && !now.Before(e.CandidacyStart) && now.Before(e.CandidacyEnd)
}

// ElectionInfo is the compact election view embedded in token and results responses.
type ElectionInfo struct {
	ID    string `json:"id"`
	Titre string `json:"titre"`
	Type  string `json:"type"`
}

type Candidate struct {
	ID         string    `json:"id"`
	ElectionID string    `json:"electionId"`
	AccountID  string    `json:"accountId"`
	Nom        string    `json:"nom"`
	Prenom     string    `json:"prenom"`
	Programme  *string   `json:"programme,omitempty"`
	PhotoURL   *string   `json:"photoUrl,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type VoteToken struct {
	Token      string    `json:"-"` // bearer credential, only returned to its owner
	AccountID  string    `json:"accountId"`
	ElectionID string    `json:"electionId"`
	IssuedAt   time.Time `json:"issuedAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
	Used       bool      `json:"used"`
}

type Vote struct {
	AccountID   string    `json:"accountId"`
	ElectionID  string    `json:"electionId"`
	CandidateID string    `json:"candidateId"`
	CastAt      time.Time `json:"castAt"`
}

// Results types

type ResultDetails struct {
	VotesResponsables       int     `json:"votesResponsables"`
	VotesEtudiants          int     `json:"votesEtudiants"`
	TotalVotes              int     `json:"totalVotes"`
	PourcentageResponsables float64 `json:"pourcentageResponsables"`
	PourcentageEtudiants    float64 `json:"pourcentageEtudiants"`
}

type CandidateResult struct {
	CandidateID string        `json:"candidateId"`
	Nom         string        `json:"nom"`
	Prenom      string        `json:"prenom"`
	ScoreFinal  float64       `json:"scoreFinal"`
	Details     ResultDetails `json:"details"`
}

type ElectionStatistics struct {
	TotalVotes        int     `json:"totalVotes"`
	VotesResponsables int     `json:"votesResponsables"`
	VotesEtudiants    int     `json:"votesEtudiants"`
	TotalInscrits     int     `json:"totalInscrits"`
	TauxParticipation float64 `json:"tauxParticipation"`
}

type ElectionResults struct {
	Election     ElectionInfo       `json:"election"`
	Statistiques ElectionStatistics `json:"statistiques"`
	Resultats    []CandidateResult  `json:"resultats"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
