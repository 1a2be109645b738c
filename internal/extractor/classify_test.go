package extractor

import "testing"

func TestClassifyGender(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want string
	}{
		{"english women", []string{"Women Oversized Coat"}, "women"},
		{"women not swallowed by men", []string{"WOMENS KNIT"}, "women"},
		{"english men", []string{"Men Slim Jeans"}, "men"},
		{"korean female", []string{"여성 가디건"}, "women"},
		{"korean male", []string{"남성 셔츠"}, "men"},
		{"kids", []string{"키즈 패딩"}, "kids"},
		{"no hint", []string{"Camion Boot"}, "unisex"},
		{"menu word not gender", []string{"Recommended Items"}, "unisex"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyGender(tc.in...); got != tc.want {
				t.Errorf("ClassifyGender(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestClassifySubcategory(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want string
	}{
		{"english sneakers", []string{"M2002RDD Sneakers Grey"}, "shoes"},
		{"korean shoes", []string{"뉴발란스 운동화"}, "shoes"},
		{"outerwear", []string{"Garment Dyed Jacket"}, "outer"},
		{"korean outer", []string{"울 코트"}, "outer"},
		{"top", []string{"스트라이프 티셔츠"}, "top"},
		{"bottom", []string{"Wide Denim Pants"}, "bottom"},
		{"bag", []string{"레더 크로스백"}, "bag"},
		{"unknown", []string{"Gift Card"}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifySubcategory(tc.in...); got != tc.want {
				t.Errorf("ClassifySubcategory(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
