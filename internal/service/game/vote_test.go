package game

import (
	"errors"
	"testing"
)

func votingSession(roles map[string]string) *Session {
	sess := playingSession(roles)
	sess.State = STATE_VOTING

	return sess
}

func TestRecordVote_RequiresVotingPhase(t *testing.T) {
	sess := playingSession(map[string]string{
		"a": ROLE_INNOCENT,
		"b": ROLE_INNOCENT,
		"c": ROLE_IMPOSTOR,
	})

	_, err := RecordVote(sess, "a", "c")
	if !errors.Is(err, ErrNotVotingPhase) {
		t.Fatalf("want ErrNotVotingPhase, got: %v", err)
	}
}

func TestRecordVote_RejectsInvalidVoter(t *testing.T) {
	sess := votingSession(map[string]string{
		"a": ROLE_INNOCENT,
		"b": ROLE_INNOCENT,
		"c": ROLE_IMPOSTOR,
	})

	if _, err := RecordVote(sess, "nobody", "c"); !errors.Is(err, ErrInvalidVoter) {
		t.Fatalf("absent voter: want ErrInvalidVoter, got: %v", err)
	}

	sess.FindPlayer("a").IsDead = true

	if _, err := RecordVote(sess, "a", "c"); !errors.Is(err, ErrInvalidVoter) {
		t.Fatalf("dead voter: want ErrInvalidVoter, got: %v", err)
	}
}

func TestRecordVote_AllowsChangingVote(t *testing.T) {
	sess := votingSession(map[string]string{
		"a": ROLE_INNOCENT,
		"b": ROLE_INNOCENT,
		"c": ROLE_IMPOSTOR,
	})

	due, err := RecordVote(sess, "a", "b")
	if err != nil || due {
		t.Fatalf("first vote: due=%v err=%v", due, err)
	}

	due, err = RecordVote(sess, "a", "c")
	if err != nil || due {
		t.Fatalf("changed vote: due=%v err=%v", due, err)
	}

	if got := sess.FindPlayer("a").Vote; got != "c" {
		t.Fatalf("later vote should overwrite, got %q", got)
	}
}

func TestVoteFlow_FinalBallotTriggersResolution(t *testing.T) {
	sess := votingSession(map[string]string{
		"a": ROLE_INNOCENT,
		"b": ROLE_INNOCENT,
		"c": ROLE_IMPOSTOR,
	})

	if due, _ := RecordVote(sess, "a", "c"); due {
		t.Fatalf("resolution due before all living players voted")
	}

	if due, _ := RecordVote(sess, "b", "c"); due {
		t.Fatalf("resolution due before all living players voted")
	}

	due, err := RecordVote(sess, "c", VOTE_SKIP)
	if err != nil {
		t.Fatalf("skip vote should be accepted, got: %v", err)
	}
	if !due {
		t.Fatalf("final ballot should make resolution due")
	}

	Resolve(sess)

	// the caller of the final vote observes the post-resolution session
	if sess.State != STATE_GAME_OVER {
		t.Fatalf("want state %q, got %q", STATE_GAME_OVER, sess.State)
	}

	if sess.Winner != WINNER_INNOCENTS {
		t.Fatalf("want winner %q, got %q", WINNER_INNOCENTS, sess.Winner)
	}

	if !sess.FindPlayer("c").IsDead {
		t.Fatalf("eliminated impostor should be marked dead")
	}

	if got := sess.CurrentRound.Votes["c"]; got != 2 {
		t.Fatalf("tally snapshot should record 2 votes for c, got %d", got)
	}

	if _, counted := sess.CurrentRound.Votes[VOTE_SKIP]; counted {
		t.Fatalf("skip votes must never appear in the tally")
	}
}

func TestResolve_InnocentEliminationReachesParity(t *testing.T) {
	sess := votingSession(map[string]string{
		"a": ROLE_IMPOSTOR,
		"b": ROLE_INNOCENT,
		"c": ROLE_INNOCENT,
	})

	sess.FindPlayer("a").Vote = "b"
	sess.FindPlayer("c").Vote = "b"
	sess.FindPlayer("b").Vote = VOTE_SKIP

	Resolve(sess)

	if !sess.FindPlayer("b").IsDead {
		t.Fatalf("unique plurality target should be eliminated")
	}

	// one impostor vs one innocent left: impostor wins
	if sess.State != STATE_GAME_OVER || sess.Winner != WINNER_IMPOSTOR {
		t.Fatalf("want impostor win, got state=%q winner=%q", sess.State, sess.Winner)
	}
}

func TestResolve_TieEliminatesNobody(t *testing.T) {
	sess := votingSession(map[string]string{
		"a": ROLE_INNOCENT,
		"b": ROLE_INNOCENT,
		"c": ROLE_INNOCENT,
		"d": ROLE_IMPOSTOR,
	})

	sess.FindPlayer("a").Vote = "b"
	sess.FindPlayer("b").Vote = "a"
	sess.FindPlayer("c").Vote = "b"
	sess.FindPlayer("d").Vote = "a"

	Resolve(sess)

	for _, p := range sess.Players {
		if p.IsDead {
			t.Fatalf("2-2 tie must not eliminate anyone, %s is dead", p.ID)
		}
		if p.Vote != "" {
			t.Fatalf("votes should be cleared for the fresh round, %s still holds %q", p.ID, p.Vote)
		}
	}

	if sess.State != STATE_PLAYING {
		t.Fatalf("tie should start a fresh round, got state %q", sess.State)
	}

	r := sess.CurrentRound
	if r.RoundNumber != 2 || r.CurrentSpeakerIndex != 0 {
		t.Fatalf("fresh round not initialized: number=%d index=%d", r.RoundNumber, r.CurrentSpeakerIndex)
	}

	if len(r.SpeakerOrder) != 4 {
		t.Fatalf("speaker order should cover all living players, got %v", r.SpeakerOrder)
	}
}

func TestResolve_AllSkipsStartsFreshRound(t *testing.T) {
	sess := votingSession(map[string]string{
		"a": ROLE_INNOCENT,
		"b": ROLE_INNOCENT,
		"c": ROLE_IMPOSTOR,
	})

	for _, p := range sess.Players {
		p.Vote = VOTE_SKIP
	}

	Resolve(sess)

	if sess.State != STATE_PLAYING {
		t.Fatalf("all-skip vote should start a fresh round, got %q", sess.State)
	}

	if got := sess.CurrentRound.RoundNumber; got != 2 {
		t.Fatalf("want round 2, got %d", got)
	}

	if len(sess.CurrentRound.Votes) != 0 {
		t.Fatalf("tally snapshot should be empty, got %v", sess.CurrentRound.Votes)
	}
}

func TestResolve_VoteForDepartedPlayerIsHarmless(t *testing.T) {
	sess := votingSession(map[string]string{
		"a": ROLE_INNOCENT,
		"b": ROLE_INNOCENT,
		"c": ROLE_IMPOSTOR,
	})

	// everyone voted for someone who has since left the session
	for _, p := range sess.Players {
		p.Vote = "ghost"
	}

	Resolve(sess)

	for _, p := range sess.Players {
		if p.IsDead {
			t.Fatalf("nobody present should die, %s is dead", p.ID)
		}
	}

	if sess.State != STATE_PLAYING {
		t.Fatalf("want a fresh round, got state %q", sess.State)
	}
}

func TestResolve_SingleImpostorInvariantHolds(t *testing.T) {
	sess := votingSession(map[string]string{
		"a": ROLE_INNOCENT,
		"b": ROLE_INNOCENT,
		"c": ROLE_INNOCENT,
		"d": ROLE_INNOCENT,
		"e": ROLE_IMPOSTOR,
	})

	// unique plurality on an innocent keeps the game going
	sess.FindPlayer("a").Vote = "b"
	sess.FindPlayer("b").Vote = VOTE_SKIP
	sess.FindPlayer("c").Vote = "b"
	sess.FindPlayer("d").Vote = "b"
	sess.FindPlayer("e").Vote = VOTE_SKIP

	Resolve(sess)

	if sess.State != STATE_PLAYING {
		t.Fatalf("3 innocents vs 1 impostor should continue, got %q", sess.State)
	}

	impostors := 0
	for _, p := range sess.Players {
		if !p.IsDead && p.Role == ROLE_IMPOSTOR {
			impostors++
		}
	}

	if impostors != 1 {
		t.Fatalf("want exactly one living impostor, got %d", impostors)
	}

	for _, id := range sess.CurrentRound.SpeakerOrder {
		if id == "b" {
			t.Fatalf("dead player must not appear in the new speaker order")
		}
	}
}
