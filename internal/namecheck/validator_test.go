package namecheck

import "testing"

func TestValid(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want bool
	}{
		{"normal brand", "Our Legacy", true},
		{"korean brand", "아더에러", true},
		{"short brand kept", "IO", true},
		{"too short", "A", false},
		{"too long", "this brand name is way too long to be a real label and keeps going on and on", false},
		{"ui vocab english", "Login", false},
		{"ui vocab cart", "MY CART", false},
		{"ui vocab korean", "장바구니", false},
		{"ui vocab japanese", "カート", false},
		{"nav suffix more", "New Arrivals View All", false},
		{"nav suffix korean", "신상품 더보기", false},
		{"bare nav label more", "More", false},
		{"bare nav label view all", "view all", false},
		{"bare nav label shop now", "Shop Now", false},
		{"collab short kept", "A x B", true},
		{"collab long rejected", "Limited Capsule Collection by Studio Nicholson", false},
		{"hangul morphology", "재입고 알림 신청", false},
		{"hangul sentence ending", "지금 바로 확인하세요", false},
		{"hangul long phrase", "이번 시즌 가장 사랑받은 인기 제품 모음전 특가", false},
		{"hangul compact name kept", "비비안웨스트우드", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Valid(tc.in); got != tc.want {
				t.Errorf("Valid(%q) = %v, want %v (reason=%q)", tc.in, got, tc.want, Reason(tc.in))
			}
		})
	}
}

func TestReason(t *testing.T) {
	if r := Reason("Checkout"); r != "ui-vocab" {
		t.Errorf("Reason = %q, want ui-vocab", r)
	}
	if r := Reason("Stone Island"); r != "" {
		t.Errorf("Reason = %q, want empty", r)
	}
}
