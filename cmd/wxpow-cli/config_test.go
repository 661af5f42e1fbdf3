package main

import "testing"

func TestValidateConfigRejectsEmptyBody(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitCores = []int{0}
	cfg.HashCores = []int{0}
	if err := ValidateConfig(cfg); err == nil {
		t.Fatal("expected an error for an empty body")
	}
}

func TestValidateConfigRejectsEmptyCoreLists(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Body = "hello"
	cfg.InitCores = nil
	if err := ValidateConfig(cfg); err == nil {
		t.Fatal("expected an error for empty init_cores")
	}
	cfg.InitCores = []int{0}
	cfg.HashCores = nil
	if err := ValidateConfig(cfg); err == nil {
		t.Fatal("expected an error for empty hash_cores")
	}
}

func TestValidateConfigRejectsOutOfRangeDiff(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Body = "hello"
	cfg.InitCores = []int{0}
	cfg.HashCores = []int{0}
	cfg.DiffTarget = 257
	if err := ValidateConfig(cfg); err == nil {
		t.Fatal("expected an error for diff_target > 256")
	}
}

func TestValidateConfigRejectsNegativeTimeLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Body = "hello"
	cfg.InitCores = []int{0}
	cfg.HashCores = []int{0}
	cfg.TimeLimitSecs = -1
	if err := ValidateConfig(cfg); err == nil {
		t.Fatal("expected an error for a negative time limit")
	}
}

func TestValidateConfigAcceptsDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Body = "hello"
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseCoreList(t *testing.T) {
	cases := []struct {
		in   string
		want []int
	}{
		{"", nil},
		{"0", []int{0}},
		{"0,1,2", []int{0, 1, 2}},
		{" 0 , 1 ", []int{0, 1}},
	}
	for _, c := range cases {
		got, err := parseCoreList(c.in)
		if err != nil {
			t.Fatalf("parseCoreList(%q): %v", c.in, err)
		}
		if len(got) != len(c.want) {
			t.Fatalf("parseCoreList(%q) = %v, want %v", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("parseCoreList(%q) = %v, want %v", c.in, got, c.want)
			}
		}
	}
}

func TestParseCoreListRejectsNegative(t *testing.T) {
	if _, err := parseCoreList("0,-1"); err == nil {
		t.Fatal("expected an error for a negative core index")
	}
}

func TestParseCoreListRejectsGarbage(t *testing.T) {
	if _, err := parseCoreList("abc"); err == nil {
		t.Fatal("expected an error for a non-numeric core index")
	}
}
