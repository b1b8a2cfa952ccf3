package netconfig

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/fabric-control/fcc/internal/xmlconfig"
)

// operationDelete marks an element for removal in the candidate configuration.
var operationDelete = etree.Attr{Key: "operation", Value: "delete"}

// VLAN is a layer 2 VLAN definition.
type VLAN struct {
	ID          int    `yaml:"id"`
	Description string `yaml:"description,omitempty"`
	Delete      bool   `yaml:"delete,omitempty"`
}

// ToXMLElement renders the VLAN as a <vlans> element.
func (v VLAN) ToXMLElement() *etree.Element {
	vlans := etree.NewElement("vlans")
	entry := vlans.CreateElement("vlan-id")
	if v.Delete {
		entry.CreateAttr(operationDelete.Key, operationDelete.Value)
	}
	xmlconfig.TextSubElement(entry, "id", strconv.Itoa(v.ID))
	if v.Description != "" && !v.Delete {
		xmlconfig.TextSubElement(entry, "description", v.Description)
	}
	return vlans
}
