package theme

import (
	"testing"

	"github.com/matzehuels/svgtree/pkg/options"
)

func TestParseScheme(t *testing.T) {
	if s, err := ParseScheme("dark"); err != nil || s != Dark {
		t.Errorf("ParseScheme(dark) = %v, %v", s, err)
	}
	if _, err := ParseScheme("blue"); err == nil {
		t.Error("ParseScheme(blue) should fail")
	}
}

func TestSetNotifiesSubscribers(t *testing.T) {
	svc := NewService(Light)
	var got []options.Color
	cancel := svc.Subscribe(func(_ Scheme, c options.Color) { got = append(got, c) })

	svc.Set(Dark)
	svc.Set(Dark)

	if len(got) != 1 {
		t.Fatalf("notifications = %d, want 1", len(got))
	}
	if got[0] != options.DarkColors() {
		t.Errorf("palette = %+v, want dark colors", got[0])
	}

	cancel()
	cancel()
	svc.Set(Light)
	if len(got) != 1 {
		t.Errorf("cancelled subscriber was notified")
	}
	if svc.Len() != 0 {
		t.Errorf("Len() = %d, want 0", svc.Len())
	}
}

func TestSubscribeOrder(t *testing.T) {
	svc := NewService(Dark)
	var order []int
	svc.Subscribe(func(Scheme, options.Color) { order = append(order, 1) })
	cancel := svc.Subscribe(func(Scheme, options.Color) { order = append(order, 2) })
	svc.Subscribe(func(Scheme, options.Color) { order = append(order, 3) })
	cancel()

	svc.Set(Light)

	if len(order) != 2 || order[0] != 1 || order[1] != 3 {
		t.Errorf("order = %v, want [1 3]", order)
	}
	if svc.Palette() != options.LightColors() {
		t.Errorf("Palette() = %+v, want light colors", svc.Palette())
	}
}
