package netconfig

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabric-control/fcc/internal/xmlconfig"
)

func render(t *testing.T, f xmlconfig.Fragment) string {
	t.Helper()
	out, err := xmlconfig.Render(f.ToXMLElement())
	require.NoError(t, err)
	return out
}

func TestVLANToXMLElement(t *testing.T) {
	tests := []struct {
		name string
		vlan VLAN
		want string
	}{
		{
			name: "plain",
			vlan: VLAN{ID: 100},
			want: "<vlans><vlan-id><id>100</id></vlan-id></vlans>",
		},
		{
			name: "with description",
			vlan: VLAN{ID: 200, Description: "tenant-a"},
			want: "<vlans><vlan-id><id>200</id><description>tenant-a</description></vlan-id></vlans>",
		},
		{
			name: "delete drops description",
			vlan: VLAN{ID: 300, Description: "old", Delete: true},
			want: `<vlans><vlan-id operation="delete"><id>300</id></vlan-id></vlans>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, tt.vlan))
		})
	}
}

func TestPortToXMLElement(t *testing.T) {
	tests := []struct {
		name string
		port Port
		want string
	}{
		{
			name: "access defaults",
			port: Port{Name: "ge-1/1/1", NativeVLAN: 100},
			want: "<interface><gigabit-ethernet><name>ge-1/1/1</name>" +
				"<family><ethernet-switching><port-mode>access</port-mode><native-vlan-id>100</native-vlan-id>" +
				"</ethernet-switching></family></gigabit-ethernet></interface>",
		},
		{
			name: "trunk with members",
			port: Port{Name: "te-1/1/49", Description: "uplink", Mode: ModeTrunk, Members: []int{10, 20}, MTU: 9000},
			want: "<interface><gigabit-ethernet><name>te-1/1/49</name><description>uplink</description><mtu>9000</mtu>" +
				"<family><ethernet-switching><port-mode>trunk</port-mode><vlan>" +
				"<members><vlan-id>10</vlan-id></members><members><vlan-id>20</vlan-id></members>" +
				"</vlan></ethernet-switching></family></gigabit-ethernet></interface>",
		},
		{
			name: "disabled",
			port: Port{Name: "ge-1/1/2", Disabled: true},
			want: "<interface><gigabit-ethernet><name>ge-1/1/2</name><disable>true</disable>" +
				"<family><ethernet-switching><port-mode>access</port-mode></ethernet-switching></family>" +
				"</gigabit-ethernet></interface>",
		},
		{
			name: "delete",
			port: Port{Name: "ge-1/1/3", Mode: ModeTrunk, Members: []int{5}, Delete: true},
			want: `<interface><gigabit-ethernet operation="delete"><name>ge-1/1/3</name></gigabit-ethernet></interface>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, tt.port))
		})
	}
}

func TestFragmentsSerializeUnderOneRoot(t *testing.T) {
	out, err := xmlconfig.Serialize([]xmlconfig.Fragment{
		VLAN{ID: 10},
		Port{Name: "ge-1/1/1", NativeVLAN: 10},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<configuration><vlans>"))
	assert.True(t, strings.HasSuffix(out, "</interface></configuration>"))
}

const changeSetYAML = `
changes:
  - port:
      name: ge-1/1/1
      mode: trunk
      members: [10, 20]
  - vlan:
      id: 10
      description: tenant-a
  - raw: "<system><hostname>leaf-01</hostname></system>"
  - vlan:
      id: 20
      delete: true
`

func TestLoadChangeSetPreservesOrder(t *testing.T) {
	fragments, err := LoadChangeSet(strings.NewReader(changeSetYAML))
	require.NoError(t, err)
	require.Len(t, fragments, 4)

	assert.Equal(t, Port{Name: "ge-1/1/1", Mode: ModeTrunk, Members: []int{10, 20}}, fragments[0])
	assert.Equal(t, VLAN{ID: 10, Description: "tenant-a"}, fragments[1])
	require.IsType(t, xmlconfig.Node{}, fragments[2])
	assert.Equal(t, "system", fragments[2].ToXMLElement().Tag)
	assert.Equal(t, VLAN{ID: 20, Delete: true}, fragments[3])

	root, err := xmlconfig.Build(fragments)
	require.NoError(t, err)
	tags := []string{}
	for _, c := range root.ChildElements() {
		tags = append(tags, c.Tag)
	}
	assert.Equal(t, []string{"interface", "vlans", "system", "vlans"}, tags)
}

func TestLoadChangeSetEmpty(t *testing.T) {
	fragments, err := LoadChangeSet(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, fragments)

	fragments, err = LoadChangeSet(strings.NewReader("changes: []\n"))
	require.NoError(t, err)
	assert.Empty(t, fragments)
}

func TestLoadChangeSetRawConfigurationPassesThrough(t *testing.T) {
	doc := "<configuration><vlans><vlan-id><id>5</id></vlan-id></vlans></configuration>"
	fragments, err := LoadChangeSet(strings.NewReader("changes:\n  - raw: \"" + doc + "\"\n"))
	require.NoError(t, err)

	out, err := xmlconfig.Serialize(fragments)
	require.NoError(t, err)
	assert.Equal(t, doc, out)
}

func TestLoadChangeSetErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{name: "empty change", yaml: "changes:\n  - {}\n", want: "change 0: exactly one of vlan, port or raw is required, got 0"},
		{name: "two objects", yaml: "changes:\n  - vlan: {id: 1}\n    port: {name: ge-1/1/1}\n", want: "got 2"},
		{name: "raw without element", yaml: "changes:\n  - raw: \"just text\"\n", want: "raw XML has no element"},
		{name: "broken raw", yaml: "changes:\n  - raw: \"<vlans\"\n", want: "invalid raw XML"},
		{name: "bad yaml", yaml: "changes: [\n", want: "failed to decode change set"},
		{name: "wrong type", yaml: "changes:\n  - vlan: {id: abc}\n", want: "failed to decode change set"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadChangeSet(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadChangeSetFile(t *testing.T) {
	_, err := LoadChangeSetFile("does-not-exist.yaml")
	assert.Error(t, err)
}
