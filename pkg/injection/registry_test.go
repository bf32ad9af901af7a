package injection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weft-dev/weft/pkg/errors"
	"github.com/weft-dev/weft/pkg/insn"
)

type stubPoint struct{}

func (stubPoint) Find(desc string, insns *insn.List, nodes *insn.NodeSet) bool {
	return false
}

func stubFactory(data *Data) (Point, error) {
	return stubPoint{}, nil
}

// stubProvider implements Provider with configurable code and factory.
type stubProvider struct {
	code    string
	factory Factory
}

func (p stubProvider) Code() string     { return p.code }
func (p stubProvider) Factory() Factory { return p.factory }

func TestRegister(t *testing.T) {
	t.Run("register and resolve", func(t *testing.T) {
		require.NoError(t, Register("TEST_REGISTER", stubFactory))

		factory, err := Resolve("TEST_REGISTER")
		require.NoError(t, err)
		assert.NotNil(t, factory)
	})

	t.Run("code names are case insensitive", func(t *testing.T) {
		require.NoError(t, Register("TEST_CASE", stubFactory))

		assert.True(t, Registered("test_case"))
		assert.True(t, Registered("  Test_Case "))
	})

	t.Run("duplicate registration fails", func(t *testing.T) {
		require.NoError(t, Register("TEST_DUP", stubFactory))

		err := Register("TEST_DUP", stubFactory)
		assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))
	})

	t.Run("nil factory fails", func(t *testing.T) {
		err := Register("TEST_NIL", nil)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})
}

func TestResolveUnknown(t *testing.T) {
	_, err := Resolve("TEST_NEVER_REGISTERED")
	assert.True(t, errors.IsErrorCode(err, errors.ErrPointNotFound))
}

func TestCreatePoint(t *testing.T) {
	require.NoError(t, Register("TEST_CREATE", stubFactory))

	t.Run("known code", func(t *testing.T) {
		point, err := CreatePoint("TEST_CREATE", map[string]string{"ordinal": "1"})
		require.NoError(t, err)
		assert.NotNil(t, point)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := CreatePoint("TEST_CREATE_UNKNOWN", nil)
		assert.True(t, errors.IsErrorCode(err, errors.ErrPointNotFound))
	})

	t.Run("factory failure wraps", func(t *testing.T) {
		require.NoError(t, Register("TEST_CREATE_FAIL", func(data *Data) (Point, error) {
			return nil, errors.New(errors.ErrInvalidInput, "bad arguments")
		}))

		_, err := CreatePoint("TEST_CREATE_FAIL", nil)
		assert.True(t, errors.IsErrorCode(err, errors.ErrPointInvalid))
	})
}

func TestRegisterProvided(t *testing.T) {
	t.Run("valid provider", func(t *testing.T) {
		err := RegisterProvided("host-point", stubProvider{code: "TEST_PROVIDED", factory: stubFactory})
		require.NoError(t, err)
		assert.True(t, Registered("TEST_PROVIDED"))
	})

	t.Run("value without the capability", func(t *testing.T) {
		err := RegisterProvided("host-point", struct{}{})
		assert.True(t, errors.IsErrorCode(err, errors.ErrPointInvalid))
	})

	t.Run("nil factory", func(t *testing.T) {
		err := RegisterProvided("host-point", stubProvider{code: "TEST_PROVIDED_NIL"})
		assert.True(t, errors.IsErrorCode(err, errors.ErrPointInvalid))
	})

	t.Run("empty code", func(t *testing.T) {
		err := RegisterProvided("host-point", stubProvider{code: "  ", factory: stubFactory})
		assert.True(t, errors.IsErrorCode(err, errors.ErrPointInvalid))
	})

	t.Run("re-registration last wins", func(t *testing.T) {
		first := func(data *Data) (Point, error) { return stubPoint{}, nil }
		second := func(data *Data) (Point, error) {
			return nil, errors.New(errors.ErrInvalidInput, "second factory")
		}

		require.NoError(t, RegisterProvided("host-a", stubProvider{code: "TEST_LAST_WINS", factory: first}))
		require.NoError(t, RegisterProvided("host-b", stubProvider{code: "TEST_LAST_WINS", factory: second}))

		_, err := CreatePoint("TEST_LAST_WINS", nil)
		assert.Error(t, err, "the later registration must be the one resolved")
	})
}
