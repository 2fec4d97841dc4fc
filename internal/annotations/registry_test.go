package annotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(ListenerAnnotation, ListenerAnnotationSchema))
	assert.True(t, r.IsRegistered(ListenerAnnotation))
	assert.False(t, r.IsRegistered(ServiceAnnotation))

	err := r.Register(ListenerAnnotation, ListenerAnnotationSchema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	err = r.Register(ServiceAnnotation, ListenerAnnotationSchema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")

	err = r.Register(SubscriberAnnotation, AnnotationSchema{
		Type:       SubscriberAnnotation,
		Parameters: map[string]ParameterSpec{"": {Type: StringType}},
	})
	require.Error(t, err)
	assert.IsType(t, &RegistrationError{}, err)
}

func TestRegistry_GetSchema(t *testing.T) {
	r := NewDefaultRegistry()

	schema, err := r.GetSchema(SubscriberAnnotation)
	require.NoError(t, err)
	assert.Contains(t, schema.Parameters, "Helper")

	_, err = NewRegistry().GetSchema(SubscriberAnnotation)
	assert.Error(t, err)

	assert.Equal(t, []AnnotationType{ListenerAnnotation, SubscriberAnnotation, ServiceAnnotation}, r.ListTypes())
}

func TestBuiltinSchemaExamplesParse(t *testing.T) {
	parser := NewParticipleParser(NewDefaultRegistry())

	for _, schema := range GetBuiltinSchemas() {
		for _, example := range schema.Examples {
			t.Run(example, func(t *testing.T) {
				parsed, err := parser.ParseAnnotation(example, testLocation())
				require.NoError(t, err)
				assert.Equal(t, schema.Type, parsed.Type)
			})
		}
	}
}

func TestAnnotationType_RoundTrip(t *testing.T) {
	for _, annotationType := range []AnnotationType{ListenerAnnotation, SubscriberAnnotation, ServiceAnnotation} {
		parsed, err := ParseAnnotationType(annotationType.String())
		require.NoError(t, err)
		assert.Equal(t, annotationType, parsed)
	}

	_, err := ParseAnnotationType("core")
	assert.Error(t, err)
}
