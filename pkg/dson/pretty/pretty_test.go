package pretty

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lk2023060901/dson-go/pkg/dson"
)

func TestFormatRecord(t *testing.T) {
	assert.Equal(t, "{\n    weight: 3,\n    tasty: true\n}", String("{weight:3,tasty:true}"))
}

func TestFormatNested(t *testing.T) {
	in := `{apples:[{weight:1},{weight:2}],tags:[1,2]}`
	want := "{\n" +
		"    apples: [{\n" +
		"        weight: 1\n" +
		"    },{\n" +
		"        weight: 2\n" +
		"    }],\n" +
		"    tags: [1,2]\n" +
		"}"
	assert.Equal(t, want, String(in))
}

func TestFormatLiteralsVerbatim(t *testing.T) {
	in := `{name:"a{b},c:d",grade:'{',sep:','}`
	want := "{\n" +
		"    name: \"a{b},c:d\",\n" +
		"    grade: '{',\n" +
		"    sep: ','\n" +
		"}"
	assert.Equal(t, want, String(in))
}

func TestFormatEmpty(t *testing.T) {
	assert.Equal(t, "{}", String("{}"))
	assert.Equal(t, "{\n    list: []\n}", String("{list:[]}"))
	assert.Equal(t, "", String(""))
}

func TestFormatRoundTrip(t *testing.T) {
	type food struct {
		Weight int
		Tasty  bool
	}
	type dog struct {
		Name  string
		Foods []food
	}
	in := dog{Name: "rex  the dog", Foods: []food{{Weight: 3, Tasty: true}}}
	text, err := dson.Marshal(in)
	assert.NoError(t, err)

	out, err := dson.Decode[dog](Format(text))
	assert.NoError(t, err)
	assert.Equal(t, in, out)
}
