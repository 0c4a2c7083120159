package normalize

import (
	"reflect"
	"testing"
)

func TestEmail(t *testing.T) {
	if got := Email("  Ops@Example.COM "); got != "ops@example.com" {
		t.Errorf("Email() = %q", got)
	}
}

func TestCategory(t *testing.T) {
	if got := Category(" Tech-Trends "); got != "tech-trends" {
		t.Errorf("Category() = %q", got)
	}
}

func TestTags(t *testing.T) {
	got := Tags(" WebGL, , Immersive ,AI ")
	want := []string{"WebGL", "Immersive", "AI"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tags() = %v, want %v", got, want)
	}

	if got := Tags("  ,, "); got != nil {
		t.Errorf("Tags() on empty input = %v, want nil", got)
	}
}
