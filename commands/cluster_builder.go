package commands

// ClusterBuilder builds commands for a Redis cluster. It shares the key
// transform of the Builder it wraps, so every slot is computed on the
// transformed key.
type ClusterBuilder struct {
	*Builder
}

func NewClusterBuilder(options ...BuilderOption) *ClusterBuilder {
	return &ClusterBuilder{Builder: NewBuilder(options...)}
}

// Keys is only allowed for patterns confined to one slot by a hash tag.
func (builder *ClusterBuilder) Keys(pattern Key) (*CommandObject[[]string], error) {
	arguments := builder.Arguments("KEYS").Key(pattern)
	if err := arguments.Err(); err != nil {
		return nil, err
	}
	if !IsClusterCompliantMatchPattern(arguments.Get(0).Raw()) {
		return nil, errKeysPatternNotCompliant
	}
	return NewCommandObject(arguments, StringSliceDecoder)
}

// Scan requires a MATCH pattern confined to one slot by a hash tag.
func (builder *ClusterBuilder) Scan(cursor string, options ScanOptions) (*CommandObject[ScanResult], error) {
	if options.Match == nil {
		return nil, errScanPatternNotCompliant
	}
	arguments := builder.scanArguments(cursor, options)
	if err := arguments.Err(); err != nil {
		return nil, err
	}
	// SCAN cursor MATCH pattern ...
	if !IsClusterCompliantMatchPattern(arguments.Get(2).Raw()) {
		return nil, errScanPatternNotCompliant
	}
	return NewCommandObject(arguments, ScanDecoder)
}

func (builder *ClusterBuilder) DelMultiShard(keys ...Key) ([]*CommandObject[int64], error) {
	return builder.multiShardKeys("DEL", keys, Int64Decoder)
}

func (builder *ClusterBuilder) UnlinkMultiShard(keys ...Key) ([]*CommandObject[int64], error) {
	return builder.multiShardKeys("UNLINK", keys, Int64Decoder)
}

func (builder *ClusterBuilder) ExistsMultiShard(keys ...Key) ([]*CommandObject[int64], error) {
	return builder.multiShardKeys("EXISTS", keys, Int64Decoder)
}

func (builder *ClusterBuilder) TouchMultiShard(keys ...Key) ([]*CommandObject[int64], error) {
	return builder.multiShardKeys("TOUCH", keys, Int64Decoder)
}

// MSetMultiShard splits alternating keys and values into one MSET per slot.
func (builder *ClusterBuilder) MSetMultiShard(keysValues ...interface{}) ([]*CommandObject[string], error) {
	if len(keysValues)%2 != 0 {
		return nil, errOddKeysValues
	}
	keys := make([]Key, 0, len(keysValues)/2)
	for i := 0; i < len(keysValues); i += 2 {
		key, err := NewKey(keysValues[i])
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	groups, err := builder.groupBySlot(keys)
	if err != nil {
		return nil, err
	}
	objects := make([]*CommandObject[string], 0, len(groups))
	for _, group := range groups {
		arguments := builder.Arguments("MSET")
		for _, index := range group {
			arguments.Key(keys[index]).Add(keysValues[2*index+1])
		}
		object, err := NewCommandObject(arguments, StatusDecoder)
		if err != nil {
			return nil, err
		}
		objects = append(objects, object)
	}
	return objects, nil
}

func (builder *ClusterBuilder) multiShardKeys(command string, keys []Key, decoder Decoder[int64]) ([]*CommandObject[int64], error) {
	groups, err := builder.groupBySlot(keys)
	if err != nil {
		return nil, err
	}
	objects := make([]*CommandObject[int64], 0, len(groups))
	for _, group := range groups {
		arguments := builder.Arguments(command)
		for _, index := range group {
			arguments.Key(keys[index])
		}
		object, err := NewCommandObject(arguments, decoder)
		if err != nil {
			return nil, err
		}
		objects = append(objects, object)
	}
	return objects, nil
}

// groupBySlot returns indexes into keys grouped by the slot of the
// transformed key. Groups and the indexes inside them keep first-appearance order.
func (builder *ClusterBuilder) groupBySlot(keys []Key) ([][]int, error) {
	groupIndex := make(map[int]int)
	groups := [][]int{}
	for i, key := range keys {
		if key == nil {
			return nil, newInvalidKeyError(key)
		}
		transformed, err := builder.TransformKey(key)
		if err != nil {
			return nil, err
		}
		slot := KeySlot(transformed)
		index, ok := groupIndex[slot]
		if !ok {
			index = len(groups)
			groupIndex[slot] = index
			groups = append(groups, nil)
		}
		groups[index] = append(groups[index], i)
	}
	return groups, nil
}

// CheckClusterCommand applies the cluster rules to a parsed command line:
// keys of one command share a slot, and KEYS and SCAN stay inside one slot.
func CheckClusterCommand(command *Command) error {
	arguments := command.Arguments
	switch command.Spec.Name {
	case "keys":
		if !IsClusterCompliantMatchPattern(arguments.Get(0).Raw()) {
			return errKeysPatternNotCompliant
		}
	case "scan":
		for _, arg := range arguments.Args() {
			if arg.IsKey() && IsClusterCompliantMatchPattern(arg.Raw()) {
				return nil
			}
		}
		return errScanPatternNotCompliant
	}
	if _, err := arguments.HashSlot(); err != nil && err != ErrKeyless {
		return err
	}
	return nil
}
