package raw

import "testing"

func TestConfGet(t *testing.T) {
	t.Setenv("LOG_FORMAT", " json ")
	t.Setenv("APP_NAME", " apm-archive ")

	root := New()
	lg := root.Prefix("LOG_")

	tests := []struct {
		name string
		conf Conf
		key  string
		def  string
		want string
	}{
		{name: "root hit", conf: root, key: "APP_NAME", def: "x", want: "apm-archive"},
		{name: "prefixed hit", conf: lg, key: "FORMAT", def: "console", want: "json"},
		{name: "missing returns default", conf: lg, key: "MISSING", def: "defv", want: "defv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.conf.Get(tt.key, tt.def); got != tt.want {
				t.Fatalf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestConfGetBool(t *testing.T) {
	lg := New().Prefix("LOG_")
	t.Setenv("LOG_T1", "true")
	t.Setenv("LOG_T2", "1")
	t.Setenv("LOG_T3", "YES")
	t.Setenv("LOG_F1", "false")
	t.Setenv("LOG_F2", "nah")
	t.Setenv("LOG_WS", "   true   ")

	tests := []struct {
		key  string
		def  bool
		want bool
	}{
		{"T1", false, true},
		{"T2", false, true},
		{"T3", false, true},
		{"F1", true, false},
		{"F2", true, false},
		{"WS", false, true},
		{"MISSING", true, true},
	}
	for _, tt := range tests {
		if got := lg.GetBool(tt.key, tt.def); got != tt.want {
			t.Fatalf("GetBool(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestConfGetInt(t *testing.T) {
	lg := New().Prefix("LOG_")
	t.Setenv("LOG_N", " 12 ")
	t.Setenv("LOG_NEG", "-3")
	t.Setenv("LOG_BAD", "12x")

	tests := []struct {
		key  string
		def  int
		want int
	}{
		{"N", 0, 12},
		{"NEG", 7, 7},
		{"BAD", 5, 5},
		{"MISSING", 9, 9},
	}
	for _, tt := range tests {
		if got := lg.GetInt(tt.key, tt.def); got != tt.want {
			t.Fatalf("GetInt(%q) = %d, want %d", tt.key, got, tt.want)
		}
	}
}
