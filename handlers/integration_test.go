// Copyright (c) 2025 Kossi Gaba.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kossiga/univote/middleware"
	"github.com/kossiga/univote/models"
	"github.com/kossiga/univote/testutil"
)

// TestFullElectionWorkflow tests the complete end-to-end workflow:
// 1. Students register (code and matricule paths)
// 2. Students log in
// 3. Admin creates an election, tokens are issued
// 4. A student submits a candidacy
// 5. A voter fetches their token
// 6. The voter casts their vote
// 7. Vote status flips
// 8. Results report the weighted outcome
func TestFullElectionWorkflow(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	cfg := testutil.GetTestConfig()
	userHandler := NewUserHandler(conn, cfg)
	electionHandler := NewElectionHandler(conn, cfg)
	candidateHandler := NewCandidateHandler(conn, cfg)
	voteHandler := NewVoteHandler(conn, cfg)
	secret := []byte(cfg.JWTSecret)

	// Step 1: register a first-year (code) and a second-year (matricule)
	seedRegistrationCode(t, conn, "UCAO-WXYZ-2345")
	seedUnclaimedStudent(t, conn, "MAT-2024-042", "Informatique de Gestion", 2)

	w := httptest.NewRecorder()
	userHandler.Register(w, testutil.MakeRequest("POST", "/register", models.RegisterRequest{
		Email: "ama@ucao.tg", Password: "motdepasse", Nom: "Agbeko", Prenom: "Ama",
		Filiere: "Informatique de Gestion", Annee: 1, Code: "UCAO-WXYZ-2345",
	}, nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 1 - code registration failed: %d - %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	userHandler.Register(w, testutil.MakeRequest("POST", "/register", models.RegisterRequest{
		Email: "koffi@ucao.tg", Password: "motdepasse", Nom: "Mensah", Prenom: "Koffi",
		Filiere: "Informatique de Gestion", Annee: 2, Matricule: "MAT-2024-042",
	}, nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 1 - matricule registration failed: %d - %s", w.Code, w.Body.String())
	}

	// Step 2: both students log in
	login := func(email string) string {
		w := httptest.NewRecorder()
		userHandler.Login(w, testutil.MakeRequest("POST", "/login", models.LoginRequest{
			Email: email, Password: "motdepasse",
		}, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Step 2 - login failed for %s: %d - %s", email, w.Code, w.Body.String())
		}
		var resp models.LoginResponse
		testutil.AssertJSON(t, w, &resp)
		return resp.Token
	}
	amaSession := login("ama@ucao.tg")
	koffiSession := login("koffi@ucao.tg")

	// Step 3: create a university-wide election; both students are in
	// scope. Candidacies are open now, voting opens once they close.
	now := time.Now()
	w = httptest.NewRecorder()
	electionHandler.Create(w, testutil.MakeRequest("POST", "/elections", models.CreateElectionRequest{
		Type:           models.TypeUniversite,
		Titre:          "Président des étudiants",
		CandidacyStart: now.Add(-time.Hour),
		CandidacyEnd:   now.Add(30 * time.Minute),
		VoteStart:      now.Add(30 * time.Minute),
		VoteEnd:        now.Add(90 * time.Minute),
	}, nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 3 - election creation failed: %d - %s", w.Code, w.Body.String())
	}
	var created models.CreateElectionResponse
	testutil.AssertJSON(t, w, &created)
	if created.TokensIssued != 2 {
		t.Fatalf("Step 3 - expected 2 tokens issued, got %d", created.TokensIssued)
	}
	t.Logf("Step 3 - Created election: %s", created.ElectionID)

	// Step 4: Ama stands for election
	w = httptest.NewRecorder()
	middleware.RequireAuth(secret, candidateHandler.Submit)(w,
		testutil.MakeRequest("POST", "/candidats/candidature", models.CandidacyRequest{
			ElectionID: created.ElectionID, Nom: "Agbeko", Prenom: "Ama",
		}, map[string]string{"Authorization": "Bearer " + amaSession}))
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 4 - candidacy failed: %d - %s", w.Code, w.Body.String())
	}
	var candidacy models.Candidate
	testutil.AssertJSON(t, w, &candidacy)

	// Candidacies close and voting opens
	if _, err := conn.Exec(`UPDATE election SET candidacy_end = $1, vote_start = $2 WHERE id = $3`,
		now.Add(-time.Minute), now.Add(-time.Minute), created.ElectionID); err != nil {
		t.Fatalf("Step 4 - failed to advance election windows: %v", err)
	}

	// Step 5: Koffi fetches his vote token
	req := testutil.MakeRequest("GET", "/vote/token/"+created.ElectionID, nil,
		map[string]string{"Authorization": "Bearer " + koffiSession})
	req.SetPathValue("electionId", created.ElectionID)
	w = httptest.NewRecorder()
	middleware.RequireAuth(secret, voteHandler.GetToken)(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 5 - token fetch failed: %d - %s", w.Code, w.Body.String())
	}
	var issued models.VoteTokenResponse
	testutil.AssertJSON(t, w, &issued)

	// Step 6: Koffi votes for Ama
	w = httptest.NewRecorder()
	voteHandler.Cast(w, testutil.MakeRequest("POST", "/vote", models.CastVoteRequest{
		ElectionID:  created.ElectionID,
		CandidateID: candidacy.ID,
		VoteToken:   issued.Token,
	}, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Step 6 - vote failed: %d - %s", w.Code, w.Body.String())
	}

	// Step 7: status flips for Koffi
	req = testutil.MakeRequest("GET", "/vote/status/"+created.ElectionID, nil,
		map[string]string{"Authorization": "Bearer " + koffiSession})
	req.SetPathValue("electionId", created.ElectionID)
	w = httptest.NewRecorder()
	middleware.RequireAuth(secret, voteHandler.Status)(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)
	var status models.VoteStatusResponse
	testutil.AssertJSON(t, w, &status)
	if !status.HasVoted {
		t.Error("Step 7 - expected hasVoted=true")
	}

	// Step 8: results show Ama with every ballot
	req = testutil.MakeRequest("GET", "/vote/results/"+created.ElectionID, nil, nil)
	req.SetPathValue("electionId", created.ElectionID)
	w = httptest.NewRecorder()
	voteHandler.Results(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var results models.ElectionResults
	testutil.AssertJSON(t, w, &results)
	if results.Statistiques.TotalVotes != 1 {
		t.Errorf("Step 8 - expected 1 vote, got %d", results.Statistiques.TotalVotes)
	}
	if results.Statistiques.TauxParticipation != 50 {
		t.Errorf("Step 8 - expected 50%% participation, got %v", results.Statistiques.TauxParticipation)
	}
	if len(results.Resultats) != 1 || results.Resultats[0].CandidateID != candidacy.ID {
		t.Fatalf("Step 8 - unexpected results: %+v", results.Resultats)
	}
	// Koffi is a general student, so the score is the 40% constituency alone
	if results.Resultats[0].ScoreFinal != 40 {
		t.Errorf("Step 8 - expected score 40, got %v", results.Resultats[0].ScoreFinal)
	}
}
