package entity

// ItemType categorizes an ItemTemplate.
type ItemType int8

const (
	ItemWeapon ItemType = iota
	ItemArmor
	ItemAccessory
	ItemMaterial
	ItemConsumable
)

// Rarity tags an ItemTemplate's drop tier.
type Rarity int8

const (
	RarityCommon Rarity = iota
	RarityUncommon
	RarityRare
)

// ItemTemplate is the opaque, read-only content record for one item ID. The
// engine reads equipment-bonus fields but never constructs or mutates
// entries — content tables are an external collaborator per spec §6.
type ItemTemplate struct {
	ItemID        string
	Name          string
	Type          ItemType
	Rarity        Rarity
	Weight        float64
	AtkBonus      int
	DefBonus      int
	SpdBonus      int
	MaxHPBonus    int
	CritRateBonus float64
	EvasionBonus  float64
	LuckBonus     int
	HealAmount    int
	GoldValue     int
	SellValue     int
}

// ItemRegistry is the opaque, string-keyed content table contract (spec §6).
type ItemRegistry interface {
	Get(itemID string) (ItemTemplate, bool)
}

// MapItemRegistry is a trivial in-memory ItemRegistry, the concrete
// reference collaborator tests build against.
type MapItemRegistry map[string]ItemTemplate

func (m MapItemRegistry) Get(itemID string) (ItemTemplate, bool) {
	t, ok := m[itemID]
	return t, ok
}

// Inventory is a mutable item container with slot and weight limits,
// grounded on original_source/src/core/items.py's Inventory dataclass.
type Inventory struct {
	Items     []string // item IDs, unequipped
	MaxSlots  int
	MaxWeight float64
	Weapon    string
	Armor     string
	Accessory string
}

func NewInventory(maxSlots int, maxWeight float64) *Inventory {
	return &Inventory{MaxSlots: maxSlots, MaxWeight: maxWeight}
}

func (inv *Inventory) UsedSlots() int { return len(inv.Items) }

func (inv *Inventory) CurrentWeight(reg ItemRegistry) float64 {
	total := 0.0
	for _, id := range inv.Items {
		if t, ok := reg.Get(id); ok {
			total += t.Weight
		}
	}
	for _, id := range []string{inv.Weapon, inv.Armor, inv.Accessory} {
		if id == "" {
			continue
		}
		if t, ok := reg.Get(id); ok {
			total += t.Weight
		}
	}
	return total
}

func (inv *Inventory) CanAdd(reg ItemRegistry, itemID string) bool {
	if inv.UsedSlots() >= inv.MaxSlots {
		return false
	}
	t, ok := reg.Get(itemID)
	if !ok {
		return false
	}
	return inv.CurrentWeight(reg)+t.Weight <= inv.MaxWeight
}

func (inv *Inventory) AddItem(reg ItemRegistry, itemID string) bool {
	if !inv.CanAdd(reg, itemID) {
		return false
	}
	inv.Items = append(inv.Items, itemID)
	return true
}

func (inv *Inventory) RemoveItem(itemID string) bool {
	for i, id := range inv.Items {
		if id == itemID {
			inv.Items = append(inv.Items[:i], inv.Items[i+1:]...)
			return true
		}
	}
	return false
}

func (inv *Inventory) HasConsumable(itemID string) bool {
	for _, id := range inv.Items {
		if id == itemID {
			return true
		}
	}
	return false
}

func (inv *Inventory) CountItem(itemID string) int {
	n := 0
	for _, id := range inv.Items {
		if id == itemID {
			n++
		}
	}
	return n
}

// Equip moves itemID from the unequipped items into its equipment slot,
// returning the previously equipped item (if any) to the unequipped list.
func (inv *Inventory) Equip(reg ItemRegistry, itemID string) bool {
	t, ok := reg.Get(itemID)
	if !ok || !inv.HasConsumable(itemID) {
		return false
	}
	switch t.Type {
	case ItemWeapon:
		if inv.Weapon != "" {
			inv.Items = append(inv.Items, inv.Weapon)
		}
		inv.Weapon = itemID
	case ItemArmor:
		if inv.Armor != "" {
			inv.Items = append(inv.Items, inv.Armor)
		}
		inv.Armor = itemID
	case ItemAccessory:
		if inv.Accessory != "" {
			inv.Items = append(inv.Items, inv.Accessory)
		}
		inv.Accessory = itemID
	default:
		return false
	}
	inv.RemoveItem(itemID)
	return true
}

// EquipmentBonus sums one stat bonus (as selected by field) across all
// equipped items.
func (inv *Inventory) EquipmentBonus(reg ItemRegistry, field func(ItemTemplate) float64) float64 {
	total := 0.0
	for _, id := range []string{inv.Weapon, inv.Armor, inv.Accessory} {
		if id == "" {
			continue
		}
		if t, ok := reg.Get(id); ok {
			total += field(t)
		}
	}
	return total
}

// AllItemIDs returns unequipped plus equipped item IDs — used for loot drops
// on death.
func (inv *Inventory) AllItemIDs() []string {
	result := make([]string, 0, len(inv.Items)+3)
	result = append(result, inv.Items...)
	for _, id := range []string{inv.Weapon, inv.Armor, inv.Accessory} {
		if id != "" {
			result = append(result, id)
		}
	}
	return result
}

// Copy returns a deep copy, used by the Snapshot producer.
func (inv *Inventory) Copy() *Inventory {
	if inv == nil {
		return nil
	}
	items := make([]string, len(inv.Items))
	copy(items, inv.Items)
	cp := *inv
	cp.Items = items
	return &cp
}
