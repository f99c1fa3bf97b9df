package dson

import (
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/dson-go/pkg/util/merr"
)

func TestResolveDog(t *testing.T) {
	r := NewRegistry(nil)
	schema, err := ResolveType[Dog](r)
	require.NoError(t, err)

	assert.Equal(t, "dson.Dog", schema.Name())
	assert.Equal(t, reflect.TypeOf((*Dog)(nil)).Elem(), schema.GoType())

	names := make([]string, 0)
	for _, f := range schema.Serializable() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"name", "age", "grade", "ratio", "food", "owner", "tricks", "scores", "tags", "toys", "alias"}, names)

	// 不可序列化字段保留在 Fields 中，但不可查找。
	assert.Len(t, schema.Fields(), 12)
	secret := schema.Fields()[11]
	assert.Equal(t, "Secret", secret.GoName)
	assert.False(t, secret.Serializable)
	assert.Nil(t, secret.Type)
	_, ok := schema.Lookup("secret")
	assert.False(t, ok)

	kinds := map[string]string{
		"name":   "string",
		"age":    "int",
		"grade":  "char",
		"ratio":  "float",
		"food":   "record<dson.Food>",
		"owner":  "record<dson.Occupation>",
		"tricks": "list<string>",
		"scores": "array[3]<int>",
		"tags":   "set<string>",
		"toys":   "map<string,int>",
		"alias":  "string",
	}
	for name, want := range kinds {
		f, ok := schema.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, want, f.Type.String(), name)
	}

	owner, _ := schema.Lookup("owner")
	assert.True(t, owner.Type.Pointer())
	food, _ := schema.Lookup("food")
	assert.False(t, food.Type.Pointer())

	// Dog、Food、Occupation 在同一次解析中缓存。
	assert.Equal(t, 3, r.Len())
}

func TestResolveIdempotent(t *testing.T) {
	r := NewRegistry(nil)
	a, err := r.Resolve(reflect.TypeOf((*Food)(nil)).Elem())
	require.NoError(t, err)
	b, err := r.Resolve(reflect.TypeOf((**Food)(nil)).Elem())
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, r.Len())
}

func TestResolveSelfReferential(t *testing.T) {
	r := NewRegistry(nil)
	schema, err := ResolveType[Node](r)
	require.NoError(t, err)

	next, ok := schema.Lookup("next")
	require.True(t, ok)
	assert.Same(t, schema, next.Type.Schema)

	children, ok := schema.Lookup("children")
	require.True(t, ok)
	assert.Equal(t, KindList, children.Type.Kind)
	assert.Same(t, schema, children.Type.Elem.Schema)
	assert.Equal(t, 1, r.Len())
}

func TestResolveErrors(t *testing.T) {
	r := NewRegistry(nil)

	_, err := r.Resolve(reflect.TypeOf((*int)(nil)).Elem())
	assert.ErrorIs(t, err, merr.ErrSchemaResolution)

	_, err = r.Resolve(nil)
	assert.ErrorIs(t, err, merr.ErrParameterInvalid)

	type multi struct {
		A chan int
		B func()
		C *int
		D complex128
		E []any
		F map[string]any
	}
	_, err = r.Resolve(reflect.TypeOf((*multi)(nil)).Elem())
	require.ErrorIs(t, err, merr.ErrSchemaResolution)
	for _, field := range []string{".A", ".B", ".C", ".D", ".E", ".F"} {
		assert.Contains(t, err.Error(), field)
	}

	type duplicate struct {
		A int
		B int `dson:"a"`
	}
	_, err = r.Resolve(reflect.TypeOf((*duplicate)(nil)).Elem())
	assert.ErrorIs(t, err, merr.ErrSchemaResolution)
	assert.Contains(t, err.Error(), "duplicate field name")

	type badName struct {
		A int `dson:"a-b"`
	}
	_, err = r.Resolve(reflect.TypeOf((*badName)(nil)).Elem())
	assert.ErrorIs(t, err, merr.ErrSchemaResolution)

	type nestedBad struct {
		Ok    Food
		Inner struct{ X any }
	}
	_, err = r.Resolve(reflect.TypeOf((*nestedBad)(nil)).Elem())
	assert.ErrorIs(t, err, merr.ErrSchemaResolution)

	// 失败的解析不会留下任何缓存，包括其中成功的嵌套类型。
	assert.Equal(t, 0, r.Len())
}

func TestResolveExcludedUnsupported(t *testing.T) {
	type excluded struct {
		C chan int `dson:"-"`
		X int
	}
	r := NewRegistry(nil)
	schema, err := ResolveType[excluded](r)
	require.NoError(t, err)
	assert.Len(t, schema.Serializable(), 1)

	text, err := Marshal(excluded{X: 1}, WithRegistry(r))
	require.NoError(t, err)
	assert.Equal(t, "{x:1}", string(text))
}

func TestResolveConcurrent(t *testing.T) {
	r := NewRegistry(nil)
	const workers = 32
	schemas := make([]*Schema, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := ResolveType[Dog](r)
			assert.NoError(t, err)
			schemas[i] = s
		}(i)
	}
	wg.Wait()

	for _, s := range schemas {
		assert.Same(t, schemas[0], s)
	}
	assert.Equal(t, 3, r.Len())
}

// upperSource 将规范名改为带前缀的形式。
type upperSource struct {
	TagSource
}

func (s upperSource) Fields(t reflect.Type) ([]FieldSpec, error) {
	specs, err := s.TagSource.Fields(t)
	for i := range specs {
		specs[i].Name = "f" + strings.ToUpper(specs[i].Name)
	}
	return specs, err
}

func TestCustomFieldSource(t *testing.T) {
	r := NewRegistry(upperSource{})
	text, err := Marshal(Food{Weight: 1, Tasty: true}, WithRegistry(r))
	require.NoError(t, err)
	assert.Equal(t, "{fWEIGHT:1,fTASTY:true}", string(text))

	food, err := Decode[Food](text, WithRegistry(r))
	require.NoError(t, err)
	assert.Equal(t, Food{Weight: 1, Tasty: true}, food)
}

func TestTagSource(t *testing.T) {
	type tagged struct {
		Plain   int
		Renamed int `dson:"other,omitempty"`
		Skipped int `dson:"-"`
		Custom  int `codec:"c"`
		hidden  int
	}
	specs, err := TagSource{}.Fields(reflect.TypeOf((*tagged)(nil)).Elem())
	require.NoError(t, err)
	require.Len(t, specs, 4)
	assert.Equal(t, "plain", specs[0].Name)
	assert.Equal(t, "other", specs[1].Name)
	assert.True(t, specs[2].Excluded)
	assert.Equal(t, "custom", specs[3].Name)
	assert.Equal(t, 3, specs[3].Index)

	specs, err = TagSource{TagName: "codec"}.Fields(reflect.TypeOf((*tagged)(nil)).Elem())
	require.NoError(t, err)
	assert.Equal(t, "c", specs[3].Name)
	assert.Equal(t, "renamed", specs[1].Name)
}

func TestDescriptorStrings(t *testing.T) {
	assert.Equal(t, "record", KindRecord.String())
	assert.Equal(t, "kind(99)", Kind(99).String())
	assert.Equal(t, "double", ScalarDouble.String())
	assert.Equal(t, "scalar(99)", ScalarKind(99).String())

	d, err := NewRegistry(nil).Describe(reflect.TypeOf((*map[Char][]float64)(nil)).Elem())
	require.NoError(t, err)
	assert.Equal(t, "map<char,list<double>>", d.String())
}

func TestDefaultRegistry(t *testing.T) {
	assert.Same(t, DefaultRegistry(), DefaultRegistry())
	_, err := ResolveType[Occupation](DefaultRegistry())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, DefaultRegistry().Len(), 1)
}
