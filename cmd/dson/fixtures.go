package main

import (
	"reflect"
	"sort"
	"strings"

	"github.com/lk2023060901/dson-go/pkg/dson"
	"github.com/lk2023060901/dson-go/pkg/util/merr"
	"github.com/lk2023060901/dson-go/pkg/util/typeutil"
)

type Apple struct {
	Weight int  `json:"weight"`
	Tasty  bool `json:"tasty"`
}

type Food struct {
	Name               string  `json:"name"`
	ContainsPineapples bool    `json:"containsPineapples" dson:"containsPineapples"`
	Rating             float64 `json:"rating"`
}

// MarshalText 让 Food 可以作为 JSON 对象的键，键的内容为 dson 文本。
func (f Food) MarshalText() ([]byte, error) {
	return dson.Marshal(f)
}

func (f *Food) UnmarshalText(text []byte) error {
	return dson.Unmarshal(text, f)
}

type Occupation struct {
	Company  string `json:"company"`
	Revenue  int    `json:"revenue"`
	Position string `json:"position"`
	Holidays []int  `json:"holidays,omitempty" dson:"-"`

	firedWorkers int
}

type Dog struct {
	Name         string               `json:"name"`
	IsRotating   bool                 `json:"isRotating" dson:"isRotating"`
	Food         Food                 `json:"preferredDogTreat" dson:"preferredDogTreat"`
	Occupations  []Occupation         `json:"occupations"`
	LikedDays    typeutil.Set[string] `json:"likedDays" dson:"likedDays"`
	EatFrequency map[Food]int         `json:"eatFrequency" dson:"eatFrequency"`
}

// fixtures 为命令行可用的示例类型，键为 --type 参数的取值。
var fixtures = map[string]reflect.Type{
	"apple":      reflect.TypeOf(Apple{}),
	"food":       reflect.TypeOf(Food{}),
	"occupation": reflect.TypeOf(Occupation{}),
	"dog":        reflect.TypeOf(Dog{}),
}

func fixtureNames() []string {
	names := make([]string, 0, len(fixtures))
	for name := range fixtures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// newFixture 返回指定示例类型的新实例指针。
func newFixture(name string) (any, error) {
	t, ok := fixtures[name]
	if !ok {
		return nil, merr.WrapErrParameterInvalid(strings.Join(fixtureNames(), "|"), name, "unknown type")
	}
	return reflect.New(t).Interface(), nil
}

func sampleFoods() (pizza, bone Food) {
	pizza = Food{Name: "pizza", ContainsPineapples: true, Rating: 7.5}
	bone = Food{Name: "bone", Rating: 9.25}
	return
}

func sampleDog() *Dog {
	pizza, bone := sampleFoods()
	return &Dog{
		Name:       "Laika",
		IsRotating: true,
		Food:       bone,
		Occupations: []Occupation{
			{Company: "Kennel Inc", Revenue: 1200, Position: "guard", Holidays: []int{1, 6}, firedWorkers: 2},
			{Company: "Space Agency", Revenue: 0, Position: "cosmonaut"},
		},
		LikedDays:    typeutil.NewSet("saturday", "sunday"),
		EatFrequency: map[Food]int{pizza: 1, bone: 5},
	}
}

// samples 返回 demo 命令使用的全部示例值。
func samples() []any {
	pizza, _ := sampleFoods()
	dog := sampleDog()
	return []any{
		&Apple{Weight: 120, Tasty: true},
		&pizza,
		&dog.Occupations[0],
		dog,
	}
}
