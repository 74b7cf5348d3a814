package countdown_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tickworks/countdown"
)

func TestVisibility_Visible(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		vis  countdown.Visibility
		want bool
	}{
		{"visible", countdown.VisibilityVisible, true},
		{"hidden", countdown.VisibilityHidden, false},
		{"empty", countdown.Visibility(""), false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := c.vis.Visible(); got != c.want {
				t.Errorf("vis.Visible() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestAlwaysVisible(t *testing.T) {
	t.Parallel()

	vis := countdown.AlwaysVisible()
	if got := vis.Visibility(); got != countdown.VisibilityVisible {
		t.Fatalf("vis.Visibility() = %v, want %v", got, countdown.VisibilityVisible)
	}

	remove := vis.OnVisibilityChange(func(countdown.Visibility) {
		t.Errorf("visibility change handler invoked, want never")
	})
	remove()
}

func TestSyntheticVisibility(t *testing.T) {
	t.Parallel()

	vis := countdown.NewSyntheticVisibility("")
	if got := vis.Visibility(); got != countdown.VisibilityVisible {
		t.Fatalf("vis.Visibility() = %v, want %v", got, countdown.VisibilityVisible)
	}

	var got []countdown.Visibility
	remove := vis.OnVisibilityChange(func(v countdown.Visibility) { got = append(got, v) })

	vis.Set(countdown.VisibilityVisible) // unchanged state is not notified
	vis.Set(countdown.VisibilityHidden)
	vis.Set(countdown.VisibilityHidden)
	vis.Set(countdown.VisibilityVisible)

	want := []countdown.Visibility{countdown.VisibilityHidden, countdown.VisibilityVisible}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("notified visibility states mismatch\ndiff (-got +want):\n%v", diff)
	}
	if gotVis := vis.Visibility(); gotVis != countdown.VisibilityVisible {
		t.Fatalf("vis.Visibility() = %v, want %v", gotVis, countdown.VisibilityVisible)
	}

	remove()
	vis.Set(countdown.VisibilityHidden)
	if len(got) != 2 {
		t.Fatalf("handler invoked after remove, got %v notifications, want 2", len(got))
	}
}

func TestSyntheticVisibility_InitialState(t *testing.T) {
	t.Parallel()

	vis := countdown.NewSyntheticVisibility(countdown.VisibilityHidden)
	if got := vis.Visibility(); got != countdown.VisibilityHidden {
		t.Fatalf("vis.Visibility() = %v, want %v", got, countdown.VisibilityHidden)
	}
}
