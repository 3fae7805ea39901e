package ragengine

import "fmt"

// QueueFamilyIndices holds the resolved family of every required queue
// capability. A value is only ever returned fully populated.
type QueueFamilyIndices struct {
	Graphics uint32
}

// Queue is an execution stream on a Device. It is not destroyed on its own.
type Queue struct {
	Handle QueueHandle
	Family uint32
	Index  uint32
}

// ResolveQueueFamilies finds the lowest-indexed family on gpu that supports
// graphics.
func ResolveQueueFamilies(drv Driver, gpu PhysicalDevice) (QueueFamilyIndices, error) {
	families := drv.QueueFamilyProperties(gpu)
	graphics, ok := findQueueFamily(families, QueueGraphics)
	if !ok {
		return QueueFamilyIndices{}, fmt.Errorf("%w: graphics (%d families)", ErrMissingQueueFamily, len(families))
	}
	return QueueFamilyIndices{Graphics: graphics}, nil
}

func findQueueFamily(families []QueueFamilyProperties, flags QueueFlags) (uint32, bool) {
	for i, family := range families {
		if family.Flags.Has(flags) {
			return uint32(i), true
		}
	}
	return 0, false
}

// queueCreateInfos asks for one queue at full priority per distinct family.
func (q QueueFamilyIndices) queueCreateInfos() []DeviceQueueCreateInfo {
	return []DeviceQueueCreateInfo{{
		Family:     q.Graphics,
		Priorities: []float32{1.0},
	}}
}
