package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Host is a physical resource pool: a set of time-shared PEs plus RAM,
// bandwidth, and storage capacity. VMs carve RAM/BW reservations out of
// it; PEs are shared by time-slicing and never exclusively reserved, so
// admission is bounded by RAM and bandwidth only.
type Host struct {
	ID      int
	PEs     int     // number of processing elements
	PEMIPS  float64 // MIPS rating per PE
	RAM     int64   // MB
	BW      int64   // Mbps
	Storage int64   // MB

	usedRAM   int64
	usedBW    int64
	residents map[int]*VM
}

// NewHost creates a Host. Panics on non-positive capacities; a host that
// cannot hold anything is a configuration bug, not a runtime condition.
func NewHost(id, pes int, peMIPS float64, ram, bw, storage int64) *Host {
	if pes <= 0 || peMIPS <= 0 {
		panic(fmt.Sprintf("NewHost: PEs and PE MIPS must be > 0, got %d x %f", pes, peMIPS))
	}
	if ram <= 0 || bw <= 0 || storage <= 0 {
		panic(fmt.Sprintf("NewHost: capacities must be > 0, got ram=%d bw=%d storage=%d", ram, bw, storage))
	}
	return &Host{
		ID:        id,
		PEs:       pes,
		PEMIPS:    peMIPS,
		RAM:       ram,
		BW:        bw,
		Storage:   storage,
		residents: make(map[int]*VM),
	}
}

// TotalMIPS returns the host's aggregate processing capacity.
func (h *Host) TotalMIPS() float64 { return float64(h.PEs) * h.PEMIPS }

// FreeRAM returns the unreserved RAM in MB.
func (h *Host) FreeRAM() int64 { return h.RAM - h.usedRAM }

// FreeBW returns the unreserved bandwidth in Mbps.
func (h *Host) FreeBW() int64 { return h.BW - h.usedBW }

// Residents returns the number of VMs currently placed on the host.
func (h *Host) Residents() int { return len(h.residents) }

// fits reports whether the spec's RAM and BW reservation would stay
// within capacity.
func (h *Host) fits(spec VMSpec) bool {
	return h.usedRAM+spec.RAM <= h.RAM && h.usedBW+spec.BW <= h.BW
}

// attach reserves capacity for vm and records it as resident.
func (h *Host) attach(vm *VM) {
	h.usedRAM += vm.Spec.RAM
	h.usedBW += vm.Spec.BW
	h.residents[vm.ID] = vm
	vm.Host = h
}

// detach releases vm's reservation. Detaching a non-resident VM is a
// bookkeeping bug and panics.
func (h *Host) detach(vm *VM) {
	if _, ok := h.residents[vm.ID]; !ok {
		panic(fmt.Sprintf("Host.detach: vm %d not resident on host %d", vm.ID, h.ID))
	}
	h.usedRAM -= vm.Spec.RAM
	h.usedBW -= vm.Spec.BW
	delete(h.residents, vm.ID)
	vm.Host = nil
}

// PlacementPolicy selects which host receives a VM when several fit.
type PlacementPolicy string

const (
	// PlacementFirstFit places on the first host that fits, in host order.
	PlacementFirstFit PlacementPolicy = "first-fit"
	// PlacementBestFit places on the fitting host with the least free RAM.
	PlacementBestFit PlacementPolicy = "best-fit"
)

// ResourcePool holds the datacenter's hosts and places VMs across them.
type ResourcePool struct {
	hosts  []*Host
	policy PlacementPolicy
}

// NewResourcePool creates a pool over the given hosts. Panics on an empty
// host list or an unknown policy.
func NewResourcePool(hosts []*Host, policy PlacementPolicy) *ResourcePool {
	if len(hosts) == 0 {
		panic("NewResourcePool: empty host list")
	}
	switch policy {
	case PlacementFirstFit, PlacementBestFit:
	default:
		panic(fmt.Sprintf("NewResourcePool: unknown placement policy %q", policy))
	}
	return &ResourcePool{hosts: hosts, policy: policy}
}

// Hosts returns the pool's hosts in placement order.
func (p *ResourcePool) Hosts() []*Host { return p.hosts }

// Allocate places vm on a host according to the pool's placement policy.
// Returns ErrCapacityExceeded when no host can take the reservation; the
// caller decides whether to queue or drop the request.
func (p *ResourcePool) Allocate(vm *VM) error {
	var target *Host
	switch p.policy {
	case PlacementFirstFit:
		for _, h := range p.hosts {
			if h.fits(vm.Spec) {
				target = h
				break
			}
		}
	case PlacementBestFit:
		for _, h := range p.hosts {
			if !h.fits(vm.Spec) {
				continue
			}
			if target == nil || h.FreeRAM() < target.FreeRAM() {
				target = h
			}
		}
	}
	if target == nil {
		return fmt.Errorf("vm %d (ram=%d bw=%d): %w", vm.ID, vm.Spec.RAM, vm.Spec.BW, ErrCapacityExceeded)
	}
	target.attach(vm)
	logrus.Debugf("placed vm %d on host %d (free ram=%d bw=%d)", vm.ID, target.ID, target.FreeRAM(), target.FreeBW())
	return nil
}

// Release frees vm's host reservation.
func (p *ResourcePool) Release(vm *VM) {
	if vm.Host == nil {
		return
	}
	vm.Host.detach(vm)
}
