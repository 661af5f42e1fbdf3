package wxpow0

import (
	"encoding/hex"
	"testing"
)

func TestSplitTable(t *testing.T) {
	cases := []struct {
		name    string
		proof   string
		wantOK  bool
		body    string
		userID  string
		context string
	}{
		{
			name:    "empty userid and context",
			proof:   "Hello world!|wxPoW0||",
			wantOK:  true,
			body:    "Hello world!",
			userID:  "",
			context: "",
		},
		{
			name:    "populated userid and context",
			proof:   "Hello world!|wxPoW0|qwerty|uiop",
			wantOK:  true,
			body:    "Hello world!",
			userID:  "qwerty",
			context: "uiop",
		},
		{
			name:    "anchors on last magic sequence",
			proof:   "|wxPoW0|Hello world!|wxPoW0|qwerty|uiop",
			wantOK:  true,
			body:    "|wxPoW0|Hello world!",
			userID:  "qwerty",
			context: "uiop",
		},
		{
			name:   "wrong version magic fails",
			proof:  "Hello world!|wxPoW1|qwerty|uiop",
			wantOK: false,
		},
		{
			name:   "missing leading pipe fails",
			proof:  "Hello world!wxPoW0|",
			wantOK: false,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := Split(c.proof)
			if ok != c.wantOK {
				t.Fatalf("ok = %v, want %v", ok, c.wantOK)
			}
			if !c.wantOK {
				return
			}
			if got.Body != c.body || got.UserID != c.userID || got.Context != c.context {
				t.Fatalf("got %+v, want body=%q userID=%q context=%q", got, c.body, c.userID, c.context)
			}
		})
	}
}

func TestSplitEscaping(t *testing.T) {
	content, ok := Split("body|wxPoW0|user\\|id|ctx\\|with|pipes")
	if !ok {
		t.Fatal("expected successful split")
	}
	if content.UserID != "user|id" {
		t.Fatalf("userID = %q, want %q", content.UserID, "user|id")
	}
	if content.Context != "ctx|with|pipes" {
		t.Fatalf("context = %q, want %q", content.Context, "ctx|with|pipes")
	}
}

func TestSplitNoTrailingContentFails(t *testing.T) {
	// Magic sequence present but nothing follows it at all: idx lands at
	// len(trimmed), so there is no userId|context tail to parse.
	_, ok := Split("body|wxPoW0|")
	if ok {
		t.Fatal("magic sequence with nothing following it should fail to parse")
	}
}

func TestEncodeMetadata(t *testing.T) {
	content := ProofContent{Body: "x", UserID: "u", Context: "c"}
	want := "wxPoW0|u|c"
	if got := EncodeMetadata(content); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDeriveKeyVectors(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello world!", "c0535e4be2b79ffd93291305436bf889314e4a3faec05ecffcbb7df31ad9e51a"},
		{"304", "d874e4e4a5df21173b0f83e313151f813bea4f488686efe670ae47f87c177595"},
	}
	for _, c := range cases {
		k := DeriveKey(c.in)
		if got := hex.EncodeToString(k[:]); got != c.want {
			t.Errorf("DeriveKey(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestPrettyMetadataFormat(t *testing.T) {
	content := ProofContent{Body: "b", UserID: "u", Context: "c"}
	want := "---- BEGIN BODY ----\nb\n----END BODY----\n\nUser ID: u\nContext: c"
	if got := PrettyMetadata(content); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
