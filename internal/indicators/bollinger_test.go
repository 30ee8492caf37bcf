package indicators

import (
	"errors"
	"math"
	"testing"

	"quantsim/internal/engine"
)

func TestNewBollingerValidation(t *testing.T) {
	tests := []struct {
		name    string
		period  int
		mult    float64
		wantErr string
	}{
		{"valid", 20, 2, ""},
		{"period below two", 1, 2, "period"},
		{"zero multiplier", 20, 0, "std_dev"},
		{"negative multiplier", 20, -1, "std_dev"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBollinger(tt.period, tt.mult)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("NewBollinger() = %v, want nil", err)
				}
				return
			}
			var invalid *engine.InvalidParameterError
			if !errors.As(err, &invalid) {
				t.Fatalf("NewBollinger() = %v, want InvalidParameterError", err)
			}
			if invalid.Name != tt.wantErr {
				t.Errorf("got parameter %q, want %q", invalid.Name, tt.wantErr)
			}
		})
	}
}

func TestBollingerBands(t *testing.T) {
	b, err := NewBollinger(3, 2)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := b.Update(10); ok {
		t.Fatal("ready after one update, want warm-up")
	}
	if _, ok := b.Update(20); ok {
		t.Fatal("ready after two updates, want warm-up")
	}
	v, ok := b.Update(30)
	if !ok {
		t.Fatal("not ready after a full window")
	}

	// Mean 20, population stdev sqrt(200/3).
	std := math.Sqrt(200.0 / 3.0)
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"middle", v.Middle, 20},
		{"upper", v.Upper, 20 + 2*std},
		{"lower", v.Lower, 20 - 2*std},
		{"bandwidth", v.Bandwidth, 4 * std / 20},
	}
	for _, tt := range tests {
		if math.Abs(tt.got-tt.want) > 1e-9 {
			t.Errorf("%s = %f, want %f", tt.name, tt.got, tt.want)
		}
	}
}

func TestBollingerRollingWindow(t *testing.T) {
	b, err := NewBollinger(3, 2)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []float64{10, 20, 30} {
		b.Update(p)
	}

	// The window slides to 20, 30, 40: same spread, shifted middle.
	v, ok := b.Update(40)
	if !ok {
		t.Fatal("not ready after fourth update")
	}
	if math.Abs(v.Middle-30) > 1e-9 {
		t.Errorf("Middle = %f, want 30", v.Middle)
	}
	std := math.Sqrt(200.0 / 3.0)
	if math.Abs(v.Upper-(30+2*std)) > 1e-9 {
		t.Errorf("Upper = %f, want %f", v.Upper, 30+2*std)
	}
}

func TestBollingerPercentB(t *testing.T) {
	tests := []struct {
		name  string
		value BollingerValue
		price float64
		want  float64
	}{
		{"at lower band", BollingerValue{Upper: 110, Lower: 90}, 90, 0},
		{"at upper band", BollingerValue{Upper: 110, Lower: 90}, 110, 1},
		{"mid band", BollingerValue{Upper: 110, Lower: 90}, 100, 0.5},
		{"below lower band", BollingerValue{Upper: 110, Lower: 90}, 88, -0.1},
		{"collapsed bands", BollingerValue{Upper: 100, Lower: 100}, 123, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.PercentB(tt.price); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PercentB(%f) = %f, want %f", tt.price, got, tt.want)
			}
		})
	}
}

func TestBollingerFlatWindow(t *testing.T) {
	b, err := NewBollinger(3, 2)
	if err != nil {
		t.Fatal(err)
	}

	var v BollingerValue
	var ok bool
	for i := 0; i < 3; i++ {
		v, ok = b.Update(50)
	}
	if !ok {
		t.Fatal("not ready after a full window")
	}
	if v.Upper != 50 || v.Middle != 50 || v.Lower != 50 {
		t.Errorf("flat window bands = %+v, want collapsed at 50", v)
	}
	if v.Bandwidth != 0 {
		t.Errorf("Bandwidth = %f, want 0", v.Bandwidth)
	}
}

func TestBollingerReset(t *testing.T) {
	b, err := NewBollinger(3, 2)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []float64{10, 20, 30} {
		b.Update(p)
	}

	b.Reset()
	if _, ok := b.Value(); ok {
		t.Error("Value() ready after Reset, want not ready")
	}
	if _, ok := b.Update(10); ok {
		t.Error("Update() ready right after Reset, want warm-up again")
	}
}
