package relay

import (
	"net/http"
	"unicode/utf16"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// EchoResponse is the body of /echo.
type EchoResponse struct {
	Normal    string `json:"normal"`
	Shouty    string `json:"shouty"`
	CharCount int    `json:"charCount"`
	Backwards string `json:"backwards"`
}

// Echo transforms input: full Unicode upper-casing ("ß" → "SS"), a length
// in UTF-16 code units as browsers count it, and a rune-wise reversal.
func Echo(input string) EchoResponse {
	return EchoResponse{
		Normal:    input,
		Shouty:    cases.Upper(language.Und).String(input),
		CharCount: utf16Len(input),
		Backwards: reverse(input),
	}
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

// TextHandler answers a plain-text "hi".
func TextHandler(c *gin.Context) {
	c.String(http.StatusOK, "hi")
}

// JSONHandler answers a fixed JSON document.
func JSONHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"text":    "hi",
		"numbers": []int{1, 2, 3},
	})
}

// EchoHandler answers Echo of the input query parameter.
func EchoHandler(c *gin.Context) {
	c.JSON(http.StatusOK, Echo(c.Query("input")))
}
