package dson

import (
	"github.com/lk2023060901/dson-go/pkg/util/typeutil"
)

type Food struct {
	Weight int
	Tasty  bool
}

type Occupation struct {
	Title  string
	Salary float64
}

type Dog struct {
	Name     string
	Age      int
	Grade    Char
	Ratio    float32
	Food     Food
	Owner    *Occupation
	Tricks   []string
	Scores   [3]int
	Tags     typeutil.Set[string]
	Toys     map[string]int
	Nickname string `dson:"alias"`
	Secret   string `dson:"-"`
	internal int
}

type Node struct {
	Value    int
	Next     *Node
	Children []Node
}

func sampleDog() Dog {
	return Dog{
		Name:     "rex",
		Age:      4,
		Grade:    'A',
		Ratio:    0.5,
		Food:     Food{Weight: 3, Tasty: true},
		Owner:    &Occupation{Title: "vet", Salary: 1024.5},
		Tricks:   []string{"sit", "roll over"},
		Scores:   [3]int{1, 2, 3},
		Tags:     typeutil.NewSet("b", "a"),
		Toys:     map[string]int{"bone": 2, "ball": 1},
		Nickname: "rexy",
	}
}

const sampleDogText = `{name:"rex",age:4,grade:'A',ratio:0.5,food:{weight:3,tasty:true},` +
	`owner:{title:"vet",salary:1024.5},tricks:["sit","roll over"],scores:[1,2,3],` +
	`tags:["a","b"],toys:[{key:"ball",value:1},{key:"bone",value:2}],alias:"rexy"}`
