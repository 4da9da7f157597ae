package commands

// CommandObject pairs the arguments of one invocation with the decoder for
// its reply. It holds no mutable state once built.
type CommandObject[T any] struct {
	arguments *Arguments
	decoder   Decoder[T]
}

// NewCommandObject fails with the first error recorded while the arguments
// were built, such as a key of an unsupported type.
func NewCommandObject[T any](arguments *Arguments, decoder Decoder[T]) (*CommandObject[T], error) {
	if err := arguments.Err(); err != nil {
		return nil, err
	}
	return &CommandObject[T]{arguments: arguments, decoder: decoder}, nil
}

func (object *CommandObject[T]) Arguments() *Arguments {
	return object.arguments
}

func (object *CommandObject[T]) Decode(reply RESPData) (T, error) {
	return object.decoder(reply)
}

func (object *CommandObject[T]) String() string {
	return object.arguments.String()
}
