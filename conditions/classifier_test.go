package conditions

import (
	"testing"

	"skycast/models"
)

func TestClassifyTable(t *testing.T) {
	testCases := []struct {
		code int
		desc string
		icon models.IconKey
	}{
		{0, "Clear", models.IconClear},
		{1, "Partly cloudy", models.IconPartlyCloudy},
		{2, "Partly cloudy", models.IconPartlyCloudy},
		{3, "Overcast", models.IconOvercast},
		{45, "Foggy", models.IconFog},
		{48, "Foggy", models.IconFog},
		{51, "Light drizzle", models.IconRain},
		{55, "Dense drizzle", models.IconRain},
		{65, "Heavy rain", models.IconRain},
		{71, "Slight snow", models.IconSnow},
		{77, "Snow grains", models.IconSnow},
		{80, "Slight rain showers", models.IconRain},
		{82, "Violent rain showers", models.IconRain},
		{85, "Slight snow showers", models.IconSnow},
		{86, "Heavy snow showers", models.IconSnow},
		{95, "Thunderstorm", models.IconThunderstorm},
		{99, "Thunderstorm with hail", models.IconThunderstorm},
	}

	for _, tc := range testCases {
		got := Classify(tc.code)
		if got.Description != tc.desc {
			t.Errorf("Classify(%d).Description = %q, want %q", tc.code, got.Description, tc.desc)
		}
		if got.Icon != tc.icon {
			t.Errorf("Classify(%d).Icon = %q, want %q", tc.code, got.Icon, tc.icon)
		}
		if got.Color == "" {
			t.Errorf("Classify(%d) has no color", tc.code)
		}
	}
}

func TestClassifyEveryKnownCode(t *testing.T) {
	for _, code := range Codes() {
		if !Known(code) {
			t.Errorf("code %d listed but not in table", code)
		}
		if got := Classify(code); got == Unknown {
			t.Errorf("Classify(%d) returned Unknown", code)
		}
	}
}

func TestClassifyUnknownCodes(t *testing.T) {
	for _, code := range []int{-1, -99, 4, 44, 56, 57, 66, 67, 100, 1 << 30} {
		if got := Classify(code); got != Unknown {
			t.Errorf("Classify(%d) = %+v, want Unknown", code, got)
		}
	}
}

func TestClassifyAtNight(t *testing.T) {
	night := false
	day := true

	if got := ClassifyAt(0, &night).Icon; got != models.IconClearNight {
		t.Errorf("expected clear-night, got %s", got)
	}
	if got := ClassifyAt(2, &night).Icon; got != models.IconPartlyCloudyNight {
		t.Errorf("expected partly-cloudy-night, got %s", got)
	}
	if got := ClassifyAt(63, &night).Icon; got != models.IconRain {
		t.Errorf("expected rain at night to stay rain, got %s", got)
	}
	if got := ClassifyAt(0, &day).Icon; got != models.IconClear {
		t.Errorf("expected clear by day, got %s", got)
	}
	if got := ClassifyAt(0, nil).Icon; got != models.IconClear {
		t.Errorf("expected nil isDay to mean daytime, got %s", got)
	}
}

func TestIconSets(t *testing.T) {
	if got := FontAwesome.Icon(models.IconClear); got != "fas fa-sun" {
		t.Errorf("unexpected clear icon %q", got)
	}
	if got := FontAwesome.Icon(models.IconKey("nonsense")); got != FontAwesome.Icon(models.IconUnknown) {
		t.Errorf("unknown key should fall back, got %q", got)
	}

	set, err := IconSetByName(" Emoji ")
	if err != nil {
		t.Fatalf("IconSetByName failed: %v", err)
	}
	if set.Name != "emoji" {
		t.Errorf("expected emoji set, got %s", set.Name)
	}
	if _, err := IconSetByName("wingdings"); err == nil {
		t.Error("expected error for unknown set")
	}

	m := Emoji.Map()
	m[models.IconClear] = "x"
	if Emoji.Icon(models.IconClear) == "x" {
		t.Error("Map must return a copy")
	}
}
