package registrar

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/devopstales/netbox-registrator/core/netbox"
	"github.com/devopstales/netbox-registrator/feature/snapshot"
	"github.com/devopstales/netbox-registrator/feature/topology"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeInventory is an in-memory inventory API for the engine tests. It
// answers filtered lookups the way the real API does, stores created rows
// and logs every mutating call so tests can assert on exact write counts.
type fakeInventory struct {
	nextID    int
	data      map[string][]netbox.Row
	mutations []string
	failOn    map[string]error
	failOnce  map[string]error
	onGet     func(collection string, params netbox.Params, results []netbox.Row) []netbox.Row
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{
		nextID:   1,
		data:     map[string][]netbox.Row{},
		failOn:   map[string]error{},
		failOnce: map[string]error{},
	}
}

var _ netbox.Client = (*fakeInventory)(nil)

// seed stores a row directly, bypassing the mutation log.
func (f *fakeInventory) seed(collection string, row netbox.Row) netbox.Row {
	row["id"] = f.nextID
	f.nextID++
	f.data[collection] = append(f.data[collection], row)
	return row
}

func (f *fakeInventory) fail(call string) error {
	if err, ok := f.failOnce[call]; ok {
		delete(f.failOnce, call)
		return err
	}
	return f.failOn[call]
}

func (f *fakeInventory) Get(ctx context.Context, collection string, params netbox.Params) (*netbox.List, error) {
	if err := f.fail("GET " + collection); err != nil {
		return nil, err
	}
	var results []netbox.Row
	for _, row := range f.data[collection] {
		if fakeMatches(row, params) {
			results = append(results, row)
		}
	}
	if f.onGet != nil {
		results = f.onGet(collection, params, results)
	}
	return &netbox.List{Count: len(results), Results: results}, nil
}

func (f *fakeInventory) Create(ctx context.Context, collection string, body netbox.Body) (netbox.Row, error) {
	call := "POST " + collection
	f.mutations = append(f.mutations, call)
	if err := f.fail(call); err != nil {
		return nil, err
	}
	row := netbox.Row{}
	for k, v := range body {
		row[k] = v
	}
	row["id"] = f.nextID
	f.nextID++
	f.data[collection] = append(f.data[collection], row)
	return row, nil
}

func (f *fakeInventory) Update(ctx context.Context, collection string, id int, body netbox.Body) (netbox.Row, error) {
	call := "PATCH " + collection
	f.mutations = append(f.mutations, call)
	if err := f.fail(call); err != nil {
		return nil, err
	}
	row := f.byID(collection, id)
	if row == nil {
		return nil, &netbox.APIError{StatusCode: http.StatusNotFound, Method: http.MethodPatch, URL: collection}
	}
	for k, v := range body {
		row[k] = v
	}
	return row, nil
}

func (f *fakeInventory) Replace(ctx context.Context, collection string, id int, body netbox.Body) (netbox.Row, error) {
	call := "PUT " + collection
	f.mutations = append(f.mutations, call)
	if err := f.fail(call); err != nil {
		return nil, err
	}
	row := f.byID(collection, id)
	if row == nil {
		return nil, &netbox.APIError{StatusCode: http.StatusNotFound, Method: http.MethodPut, URL: collection}
	}
	for k := range row {
		if k != "id" {
			delete(row, k)
		}
	}
	for k, v := range body {
		row[k] = v
	}
	return row, nil
}

func (f *fakeInventory) byID(collection string, id int) netbox.Row {
	for _, row := range f.data[collection] {
		if row.ID() == id {
			return row
		}
	}
	return nil
}

func (f *fakeInventory) count(collection string) int {
	return len(f.data[collection])
}

func (f *fakeInventory) resetMutations() {
	f.mutations = nil
}

// fakeMatches applies a filter the way the API does: id filters compare
// numerically, *_id filters follow the reference, everything else is an
// exact string match except the case-insensitive mac_address.
func fakeMatches(row netbox.Row, params netbox.Params) bool {
	for key, value := range params {
		switch {
		case key == "id":
			want, _ := strconv.Atoi(value)
			if row.ID() != want {
				return false
			}
		case strings.HasSuffix(key, "_id"):
			want, _ := strconv.Atoi(value)
			if row.Ref(strings.TrimSuffix(key, "_id")) != want {
				return false
			}
		case key == "mac_address":
			if !strings.EqualFold(row.Str(key), value) {
				return false
			}
		default:
			if row.Str(key) != value {
				return false
			}
		}
	}
	return true
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// firstRow fetches the first row matching params, failing the test when
// nothing matches.
func firstRow(t *testing.T, f *fakeInventory, collection string, params netbox.Params) netbox.Row {
	t.Helper()
	list, err := f.Get(context.Background(), collection, params)
	require.NoError(t, err)
	require.NotEmpty(t, list.Results, "expected a %s row matching %v", collection, params)
	return list.Results[0]
}

func newTestRegistrar(t *testing.T, f *fakeInventory, opts Options) *Registrar {
	t.Helper()
	if opts.Site == "" {
		opts.Site = "DC1"
	}
	reg, err := New(f, opts, zap.NewNop())
	require.NoError(t, err)
	return reg
}

// seedBase registers the references every snapshot in these tests needs.
func seedBase(f *fakeInventory) {
	f.seed(netbox.Sites, netbox.Row{"name": "DC1", "slug": "dc1"})
	f.seed(netbox.DeviceTypes, netbox.Row{"model": "PowerEdge R640", "slug": "poweredge-r640", "subdevice_role": ""})
}

// serverSnapshot is the baseline snapshot: a plain server with a bonded
// pair member and its bond, one address and a few modules.
func serverSnapshot() *snapshot.DeviceSnapshot {
	return &snapshot.DeviceSnapshot{
		Name:       "srv01",
		DeviceType: "PowerEdge R640",
		Serial:     "ABC123",
		Interfaces: []snapshot.InterfaceSpec{
			{
				Name:      "eno1",
				Class:     topology.ClassPhysical,
				Type:      "10gbase-x-sfpp",
				MAC:       "aa:bb:cc:dd:ee:01",
				Speed:     10000000,
				MTU:       9000,
				Enabled:   true,
				Parent:    "bond0",
				Addresses: []string{"192.0.2.10/24"},
			},
			{
				Name:    "bond0",
				Class:   topology.ClassLAG,
				Type:    "lag",
				MAC:     "aa:bb:cc:dd:ee:01",
				Enabled: true,
			},
		},
		Modules: []snapshot.ModuleSpec{
			{Category: snapshot.CategoryCPU, Bay: "CPU1", Manufacturer: "Intel", Model: "Xeon Gold 6230"},
			{Category: snapshot.CategoryMemory, Bay: "DIMM-A1", Manufacturer: "Samsung", Model: "M393A2K40"},
			{Category: snapshot.CategoryMemory, Bay: "DIMM-B1", Manufacturer: "Samsung", Model: "M393A2K40"},
		},
	}
}
