package xmlconfig

import (
	"errors"
	"fmt"
	"testing"

	"github.com/beevik/etree"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type vlanFragment struct {
	id int
}

func (v vlanFragment) ToXMLElement() *etree.Element {
	el := etree.NewElement("vlan")
	TextSubElement(el, "id", fmt.Sprint(v.id))
	return el
}

type nilProducer struct{}

func (nilProducer) ToXMLElement() *etree.Element { return nil }

func parse(t *testing.T, s string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(s))
	require.NotNil(t, doc.Root())
	return doc.Root()
}

func childTags(el *etree.Element) []string {
	tags := []string{}
	for _, c := range el.ChildElements() {
		tags = append(tags, c.Tag)
	}
	return tags
}

func TestSerializeEmpty(t *testing.T) {
	out, err := Serialize(nil)
	require.NoError(t, err)
	assert.Equal(t, "<configuration/>", out)

	root := parse(t, out)
	assert.Equal(t, RootTag, root.Tag)
	assert.Empty(t, root.ChildElements())
}

func TestSerializePreservesOrder(t *testing.T) {
	raw := etree.NewElement("system")
	TextSubElement(raw, "hostname", "leaf-01")

	fragments := []Fragment{
		vlanFragment{id: 30},
		NewNode(raw),
		vlanFragment{id: 10},
		vlanFragment{id: 20},
	}

	out, err := Serialize(fragments)
	require.NoError(t, err)

	root := parse(t, out)
	assert.Equal(t, RootTag, root.Tag)
	if diff := cmp.Diff([]string{"vlan", "system", "vlan", "vlan"}, childTags(root)); diff != "" {
		t.Errorf("child order mismatch (-want +got):\n%s", diff)
	}

	ids := []string{}
	for _, v := range root.SelectElements("vlan") {
		ids = append(ids, v.SelectElement("id").Text())
	}
	assert.Equal(t, []string{"30", "10", "20"}, ids)
	assert.Equal(t, "leaf-01", root.FindElement("./system/hostname").Text())
}

func TestSerializeExactOutput(t *testing.T) {
	out, err := Serialize([]Fragment{vlanFragment{id: 100}})
	require.NoError(t, err)
	assert.Equal(t, "<configuration><vlan><id>100</id></vlan></configuration>", out)
}

func TestSerializeSingleRootIsNotRewrapped(t *testing.T) {
	root, err := Build([]Fragment{vlanFragment{id: 7}, vlanFragment{id: 8}})
	require.NoError(t, err)

	want, err := Render(root)
	require.NoError(t, err)

	got, err := Serialize([]Fragment{NewNode(root)})
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Serializing again must not nest a second root.
	again, err := Serialize([]Fragment{NewNode(parse(t, got))})
	require.NoError(t, err)
	assert.Equal(t, want, again)
}

func TestSerializeSingleRootNodePointerIsNotRewrapped(t *testing.T) {
	n := NewNode(parse(t, "<configuration><vlans/></configuration>"))

	byValue, err := Serialize([]Fragment{n})
	require.NoError(t, err)
	byPointer, err := Serialize([]Fragment{&n})
	require.NoError(t, err)

	assert.Equal(t, "<configuration><vlans/></configuration>", byValue)
	assert.Equal(t, byValue, byPointer)
}

func TestSerializeNodePointerContributesElement(t *testing.T) {
	n := NewNode(parse(t, "<system><hostname>leaf-01</hostname></system>"))

	out, err := Serialize([]Fragment{&n, vlanFragment{id: 3}})
	require.NoError(t, err)
	assert.Equal(t, "<configuration><system><hostname>leaf-01</hostname></system><vlan><id>3</id></vlan></configuration>", out)
}

func TestSerializeRootNodeAmongOthersIsWrapped(t *testing.T) {
	inner := etree.NewElement(RootTag)
	out, err := Serialize([]Fragment{NewNode(inner), vlanFragment{id: 1}})
	require.NoError(t, err)

	root := parse(t, out)
	assert.Equal(t, []string{RootTag, "vlan"}, childTags(root))
}

func TestSerializeRootTaggedProducerIsWrapped(t *testing.T) {
	producer := NewNode(etree.NewElement(RootTag))
	// Only a Node triggers pass-through; a producer that happens to
	// return a root element is still placed under a new root.
	out, err := Serialize([]Fragment{rootProducer{producer}})
	require.NoError(t, err)
	assert.Equal(t, "<configuration><configuration/></configuration>", out)
}

type rootProducer struct {
	n Node
}

func (p rootProducer) ToXMLElement() *etree.Element { return p.n.Element() }

func TestSerializeInvalidFragments(t *testing.T) {
	tests := []struct {
		name      string
		fragments []Fragment
		index     int
	}{
		{name: "nil fragment", fragments: []Fragment{nil}, index: 0},
		{name: "empty node", fragments: []Fragment{vlanFragment{id: 1}, Node{}}, index: 1},
		{name: "producer returns nil", fragments: []Fragment{vlanFragment{id: 1}, vlanFragment{id: 2}, nilProducer{}}, index: 2},
		{name: "typed nil pointer", fragments: []Fragment{vlanFragment{id: 1}, (*vlanFragment)(nil)}, index: 1},
		{name: "nil node pointer", fragments: []Fragment{(*Node)(nil)}, index: 0},
		{name: "node pointer without element", fragments: []Fragment{&Node{}}, index: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Serialize(tt.fragments)
			require.Error(t, err)
			assert.Empty(t, out)

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "expected ConfigurationError, got %T", err)
			assert.Equal(t, tt.index, cfgErr.Index)
			assert.ErrorIs(t, err, ErrInvalidFragment)
		})
	}
}

func TestSerializeDoesNotMutateFragments(t *testing.T) {
	parent := etree.NewElement("holder")
	child := parent.CreateElement("vlans")
	TextSubElement(child, "id", "5")

	_, err := Serialize([]Fragment{NewNode(child)})
	require.NoError(t, err)

	assert.Same(t, parent, child.Parent())
	assert.Len(t, parent.ChildElements(), 1)
	assert.Equal(t, "5", child.SelectElement("id").Text())
}

func TestTextSubElement(t *testing.T) {
	parent := etree.NewElement("vlan-id")
	el := TextSubElement(parent, "description", "tenant a", etree.Attr{Key: "operation", Value: "replace"})

	assert.Equal(t, "description", el.Tag)
	assert.Equal(t, "tenant a", el.Text())
	assert.Equal(t, "replace", el.SelectAttrValue("operation", ""))
	assert.Same(t, parent, el.Parent())

	out, err := Render(parent)
	require.NoError(t, err)
	assert.Equal(t, `<vlan-id><description operation="replace">tenant a</description></vlan-id>`, out)
}

func TestRenderNil(t *testing.T) {
	_, err := Render(nil)
	assert.ErrorIs(t, err, ErrInvalidFragment)
}
