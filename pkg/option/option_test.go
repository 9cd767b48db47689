package option

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func validOption() Option {
	return Option{Spot: 100, Strike: 105, Maturity: 1, Rate: 0.05, Volatility: 0.2, Kind: Put}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Option)
		wantErr bool
	}{
		{"valid put", func(o *Option) {}, false},
		{"valid call", func(o *Option) { o.Kind = Call }, false},
		{"negative rate allowed", func(o *Option) { o.Rate = -0.01 }, false},
		{"zero spot", func(o *Option) { o.Spot = 0 }, true},
		{"negative strike", func(o *Option) { o.Strike = -1 }, true},
		{"zero maturity", func(o *Option) { o.Maturity = 0 }, true},
		{"zero volatility", func(o *Option) { o.Volatility = 0 }, true},
		{"nan volatility", func(o *Option) { o.Volatility = math.NaN() }, true},
		{"infinite spot", func(o *Option) { o.Spot = math.Inf(1) }, true},
		{"nan rate", func(o *Option) { o.Rate = math.NaN() }, true},
		{"unknown kind", func(o *Option) { o.Kind = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := validOption()
			tt.modify(&o)
			err := o.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidOption) {
				t.Errorf("Validate() error = %v, want wrapping ErrInvalidOption", err)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"call", Call, false},
		{"PUT", Put, false},
		{" Call ", Call, false},
		{"straddle", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestKindJSON(t *testing.T) {
	var o Option
	if err := json.Unmarshal([]byte(`{"spot":1,"kind":"call"}`), &o); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if o.Kind != Call {
		t.Errorf("Kind = %v, want call", o.Kind)
	}

	b, err := json.Marshal(validOption())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back["kind"] != "put" {
		t.Errorf("kind = %v, want %q", back["kind"], "put")
	}
}

func TestBlackScholesPutCallParity(t *testing.T) {
	put := validOption()
	call := put
	call.Kind = Call

	lhs := BlackScholes(call) - BlackScholes(put)
	rhs := put.Spot - put.Strike*put.DiscountFactor()
	if math.Abs(lhs-rhs) > 1e-9 {
		t.Fatalf("put-call parity violated: LHS=%f RHS=%f", lhs, rhs)
	}
}

func TestBlackScholesKnownValue(t *testing.T) {
	// S=100 K=100 T=1 r=5% sigma=20%: textbook call value 10.4506
	o := Option{Spot: 100, Strike: 100, Maturity: 1, Rate: 0.05, Volatility: 0.2, Kind: Call}
	if got := BlackScholes(o); math.Abs(got-10.4506) > 1e-3 {
		t.Errorf("BlackScholes = %f, want ~10.4506", got)
	}
}

func TestBlackScholesDegenerate(t *testing.T) {
	o := Option{Spot: 100, Strike: 90, Maturity: 1, Rate: 0.05, Volatility: 0, Kind: Call}
	want := o.DiscountFactor() * (o.Forward() - o.Strike)
	if got := BlackScholes(o); math.Abs(got-want) > 1e-12 {
		t.Errorf("BlackScholes = %f, want %f", got, want)
	}
}
