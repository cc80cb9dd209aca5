package cell

import (
	"math/rand"
	"testing"
)

// TestFieldRoundTrip checks that every field setter/getter pair round-trips and
// leaves the other fields untouched (spec testable property 1).
func TestFieldRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 2000; i++ {
		var c Cell = rng.Uint32()

		materialIdx := rng.Uint32() % 4096
		before := c
		c = SetMaterialIdx(c, materialIdx)
		if got := MaterialIdx(c); got != materialIdx {
			t.Fatalf("MaterialIdx round-trip: got %d want %d", got, materialIdx)
		}
		if c&^maskMaterial != before&^maskMaterial {
			t.Fatalf("SetMaterialIdx touched other fields")
		}

		gen := rng.Uint32() % 4
		before = c
		c = SetUpdated(c, gen)
		if got := Updated(c); got != gen {
			t.Fatalf("Updated round-trip: got %d want %d", got, gen)
		}
		if c&^maskUpdated != before&^maskUpdated {
			t.Fatalf("SetUpdated touched other fields")
		}

		before = c
		c = SetActive(c, true)
		if !IsActive(c) {
			t.Fatalf("SetActive(true) did not set active bit")
		}
		if c&^maskActive != before&^maskActive {
			t.Fatalf("SetActive touched other fields besides updated-on-clear case")
		}

		before = c
		c = SetMoving(c, i%2 == 0)
		if IsMoving(c) != (i%2 == 0) {
			t.Fatalf("IsMoving round-trip failed")
		}
		if c&^maskMoving != before&^maskMoving {
			t.Fatalf("SetMoving touched other fields")
		}

		before = c
		dir := i%3 == 0
		c = SetDirection(c, dir)
		if Direction(c) != dir {
			t.Fatalf("Direction round-trip failed")
		}
		if c&^maskDirection != before&^maskDirection {
			t.Fatalf("SetDirection touched other fields")
		}

		movement := rng.Uint32() % 4
		before = c
		c = SetMovement(c, movement)
		if got := Movement(c); got != movement {
			t.Fatalf("Movement round-trip: got %d want %d", got, movement)
		}
		if c&^maskMovement != before&^maskMovement {
			t.Fatalf("SetMovement touched other fields")
		}

		value := int32(rng.Uint32() % 16)
		before = c
		c = SetValue(c, value, false)
		if got := Value(c); got != value {
			t.Fatalf("Value round-trip: got %d want %d", got, value)
		}
		if c&^maskValue != before&^maskValue {
			t.Fatalf("SetValue touched other fields")
		}

		color := rng.Uint32() % 256
		before = c
		c = SetColor(c, color)
		if got := Color(c); got != color {
			t.Fatalf("Color round-trip: got %d want %d", got, color)
		}
		if c&^maskColor != before&^maskColor {
			t.Fatalf("SetColor touched other fields")
		}
	}
}

func TestSetValueSaturates(t *testing.T) {
	var c Cell
	c = SetValue(c, 100, true)
	if got := Value(c); got != 0xF {
		t.Fatalf("expected saturation to 15, got %d", got)
	}
	c = SetValue(c, -5, true)
	if got := Value(c); got != 0 {
		t.Fatalf("expected saturation to 0, got %d", got)
	}
}

// TestSetActiveFalseClearsUpdated checks spec §3/§4.1: clearing active must also
// clear the generation bits so a reactivated cell is never skipped this tick.
func TestSetActiveFalseClearsUpdated(t *testing.T) {
	var c Cell
	c = SetUpdated(c, 2)
	c = SetActive(c, true)
	if Updated(c) != 2 || !IsActive(c) {
		t.Fatalf("setup failed")
	}

	c = SetActive(c, false)
	if IsActive(c) {
		t.Fatalf("expected active cleared")
	}
	if Updated(c) != 0 {
		t.Fatalf("expected generation bits cleared on deactivation, got %d", Updated(c))
	}
}

func TestIsUpdatedComparesAgainstGeneration(t *testing.T) {
	var c Cell
	c = SetUpdated(c, 1)
	if IsUpdated(c, 2) {
		t.Fatalf("cell should not report updated for a different generation")
	}
	if !IsUpdated(c, 1) {
		t.Fatalf("cell should report updated for its own generation")
	}
}
