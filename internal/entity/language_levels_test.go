package entity

import (
	"encoding/json"
	"testing"
)

func TestLanguageLevelsUnmarshalObjectForm(t *testing.T) {
	var levels LanguageLevels
	if err := json.Unmarshal([]byte(`{"English":3,"Japanese":4}`), &levels); err != nil {
		t.Fatalf("unmarshal object form: %v", err)
	}
	if levels["English"] != 3 || levels["Japanese"] != 4 {
		t.Errorf("got %v", levels)
	}
}

func TestLanguageLevelsUnmarshalStringForm(t *testing.T) {
	// Some stored rows carry the mapping double-encoded as a string.
	var levels LanguageLevels
	if err := json.Unmarshal([]byte(`"{\"English\":3}"`), &levels); err != nil {
		t.Fatalf("unmarshal string form: %v", err)
	}
	if levels["English"] != 3 {
		t.Errorf("got %v", levels)
	}
}

func TestLanguageLevelsEmptyString(t *testing.T) {
	var levels LanguageLevels
	if err := json.Unmarshal([]byte(`""`), &levels); err != nil {
		t.Fatalf("unmarshal empty string: %v", err)
	}
	if len(levels) != 0 {
		t.Errorf("expected empty mapping, got %v", levels)
	}
}

func TestLanguageLevelsClamping(t *testing.T) {
	var levels LanguageLevels
	if err := json.Unmarshal([]byte(`{"English":9,"French":0}`), &levels); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if levels["English"] != MaxLanguageLevel {
		t.Errorf("level above max not clamped: %d", levels["English"])
	}
	if levels["French"] != MinLanguageLevel {
		t.Errorf("level below min not clamped: %d", levels["French"])
	}
}

func TestLanguageLevelsInvalidString(t *testing.T) {
	var levels LanguageLevels
	if err := json.Unmarshal([]byte(`"not json"`), &levels); err == nil {
		t.Error("expected error for malformed string form")
	}
}

func TestLanguageLevelsScanRoundTrip(t *testing.T) {
	src := LanguageLevels{"English": 2}
	val, err := src.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var dst LanguageLevels
	if err := dst.Scan(val); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if dst["English"] != 2 {
		t.Errorf("round trip lost data: %v", dst)
	}
}

func TestLanguageLevelsScanNil(t *testing.T) {
	var levels LanguageLevels
	if err := levels.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if levels == nil || len(levels) != 0 {
		t.Errorf("nil column should scan to empty mapping, got %v", levels)
	}
}

func TestLevelFor(t *testing.T) {
	levels := LanguageLevels{"English": 3}

	if level, ok := levels.LevelFor("English"); !ok || level != 3 {
		t.Errorf("LevelFor(English) = %d, %v", level, ok)
	}
	if _, ok := levels.LevelFor("French"); ok {
		t.Error("LevelFor should report ok=false for an absent language")
	}
}

func TestStringListScan(t *testing.T) {
	var list StringList
	if err := list.Scan([]byte(`["Cooking","Hiking"]`)); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !list.Contains("Cooking") || list.Contains("cooking") {
		t.Errorf("membership is case-sensitive over enumerated labels, got %v", list)
	}
}
