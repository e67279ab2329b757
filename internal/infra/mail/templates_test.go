package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOTPEmailHTML(t *testing.T) {
	out := OTPEmailHTML("Asha", "12345")

	assert.Contains(t, out, "Hello Asha,")
	assert.Contains(t, out, ">12345<")
	assert.Contains(t, out, "10 minutes")
}

func TestOTPEmailHTML_EscapesName(t *testing.T) {
	out := OTPEmailHTML(`<script>alert(1)</script>`, "00001")

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestResetPasswordEmailHTML(t *testing.T) {
	out := ResetPasswordEmailHTML("Ravi", "http://localhost:5173/password/reset/abc?x=1&y=2")

	assert.Contains(t, out, `href="http://localhost:5173/password/reset/abc?x=1&amp;y=2"`)
	assert.Contains(t, out, "15 minutes")
}
