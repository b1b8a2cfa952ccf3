package netconfig

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/fabric-control/fcc/internal/xmlconfig"
)

// Port modes.
const (
	ModeAccess = "access"
	ModeTrunk  = "trunk"
)

// Port is the switching configuration of one physical interface.
type Port struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Mode        string `yaml:"mode,omitempty"`
	NativeVLAN  int    `yaml:"nativeVlan,omitempty"`
	Members     []int  `yaml:"members,omitempty"`
	MTU         int    `yaml:"mtu,omitempty"`
	Disabled    bool   `yaml:"disabled,omitempty"`
	Delete      bool   `yaml:"delete,omitempty"`
}

// ToXMLElement renders the port as an <interface> element.
func (p Port) ToXMLElement() *etree.Element {
	iface := etree.NewElement("interface")
	eth := iface.CreateElement("gigabit-ethernet")
	if p.Delete {
		eth.CreateAttr(operationDelete.Key, operationDelete.Value)
		xmlconfig.TextSubElement(eth, "name", p.Name)
		return iface
	}

	xmlconfig.TextSubElement(eth, "name", p.Name)
	if p.Description != "" {
		xmlconfig.TextSubElement(eth, "description", p.Description)
	}
	if p.MTU != 0 {
		xmlconfig.TextSubElement(eth, "mtu", strconv.Itoa(p.MTU))
	}
	if p.Disabled {
		xmlconfig.TextSubElement(eth, "disable", "true")
	}

	switching := eth.CreateElement("family").CreateElement("ethernet-switching")
	xmlconfig.TextSubElement(switching, "port-mode", p.mode())
	if p.NativeVLAN != 0 {
		xmlconfig.TextSubElement(switching, "native-vlan-id", strconv.Itoa(p.NativeVLAN))
	}
	if len(p.Members) > 0 {
		vlan := switching.CreateElement("vlan")
		for _, id := range p.Members {
			members := vlan.CreateElement("members")
			xmlconfig.TextSubElement(members, "vlan-id", strconv.Itoa(id))
		}
	}
	return iface
}

func (p Port) mode() string {
	if p.Mode == "" {
		return ModeAccess
	}
	return p.Mode
}
