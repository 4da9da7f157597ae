package commands

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithKeyPrefix namespaces every key argument with prefix.
func WithKeyPrefix(prefix Prefix) BuilderOption {
	return WithKeyTransform(prefix.KeyTransform())
}

// WithKeyTransform adds transform after any transform already configured.
func WithKeyTransform(transform KeyTransform) BuilderOption {
	return func(builder *Builder) {
		builder.keyTransform = ChainKeyTransforms(builder.keyTransform, transform)
	}
}

// Builder creates CommandObjects. Every command method obtains its
// Arguments from the Arguments factory method, so a configured key transform
// reaches every key argument and nothing else. A Builder is immutable and
// safe for concurrent use.
type Builder struct {
	keyTransform KeyTransform
}

func NewBuilder(options ...BuilderOption) *Builder {
	builder := &Builder{}
	for _, option := range options {
		option(builder)
	}
	return builder
}

// Arguments starts a new invocation of command.
func (builder *Builder) Arguments(command string) *Arguments {
	return newArgumentsWithTransform(command, builder.keyTransform)
}

// TransformKey applies the configured key transform to one key.
func (builder *Builder) TransformKey(key Key) (Key, error) {
	if builder.keyTransform == nil {
		return key, nil
	}
	return builder.keyTransform(key)
}
