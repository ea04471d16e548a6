package cards

import "testing"

func TestValueAceHigh(t *testing.T) {
	ace := NewIdentity(Hearts, 1)
	if got := ace.Value(false); got != 1 {
		t.Errorf("ace low value = %d, want 1", got)
	}
	if got := ace.Value(true); got != 14 {
		t.Errorf("ace high value = %d, want 14", got)
	}
	king := NewIdentity(Spades, 13)
	if got := king.Value(true); got != 13 {
		t.Errorf("king value = %d, want 13", got)
	}
}

func TestSuitColors(t *testing.T) {
	for _, suit := range []Suit{Clubs, Spades} {
		if !suit.IsBlack() {
			t.Errorf("%s should be black", suit)
		}
	}
	for _, suit := range []Suit{Hearts, Diamonds} {
		if suit.IsBlack() {
			t.Errorf("%s should not be black", suit)
		}
	}
}

func TestStandardCatalog(t *testing.T) {
	catalog := StandardCatalog()
	if catalog.Size() != 52 {
		t.Fatalf("catalog size = %d, want 52", catalog.Size())
	}
	seen := make(map[string]bool)
	for _, id := range catalog.Identities() {
		if seen[id.Name] {
			t.Errorf("duplicate card %s", id.Name)
		}
		seen[id.Name] = true
	}
}

// FlipCard only goes face-down to face-up and notifies once per flip;
// TurnFaceDown is silent.
func TestFlipCardNotification(t *testing.T) {
	card := NewPlayingCard(NewIdentity(Hearts, 7))
	if !card.IsFaceDown() {
		t.Fatal("new card should spawn face down")
	}

	shown := 0
	card.SetOnShown(func(*PlayingCard) { shown++ })

	card.FlipCard()
	if card.IsFaceDown() || shown != 1 {
		t.Fatalf("after flip: faceDown=%v shown=%d", card.IsFaceDown(), shown)
	}

	// Face-up cards ignore further flips.
	card.FlipCard()
	if shown != 1 {
		t.Fatalf("second flip notified, shown=%d", shown)
	}

	card.TurnFaceDown()
	if !card.IsFaceDown() || shown != 1 {
		t.Fatalf("TurnFaceDown should be silent, shown=%d", shown)
	}

	card.FlipCard()
	if shown != 2 {
		t.Fatalf("flip after face-down should notify, shown=%d", shown)
	}
}

func TestPlaceFaceUpIsSilent(t *testing.T) {
	card := NewPlayingCard(NewIdentity(Clubs, 12))
	shown := 0
	card.SetOnShown(func(*PlayingCard) { shown++ })

	card.PlaceFaceUp()
	if card.IsFaceDown() || shown != 0 {
		t.Fatalf("PlaceFaceUp: faceDown=%v shown=%d", card.IsFaceDown(), shown)
	}
}

// A nil mover completes motions immediately and still records the target.
func TestMoveWithoutMover(t *testing.T) {
	card := NewPlayingCard(NewIdentity(Diamonds, 3))
	completed := false
	target := Point{X: 1, Y: 2, Z: 3}

	card.MoveTo(target, 5, func() { completed = true })
	if !completed {
		t.Fatal("onComplete not called without mover")
	}
	if card.TargetPosition() != target {
		t.Fatalf("target position = %v, want %v", card.TargetPosition(), target)
	}
}
