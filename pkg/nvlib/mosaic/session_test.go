/**
# Copyright 2024 NVIDIA CORPORATION
#
# Licensed under the Apache License, Version 2.0 (the "License");
# you may not use this file except in compliance with the License.
# You may obtain a copy of the License at
#
#     http://www.apache.org/licenses/LICENSE-2.0
#
# Unless required by applicable law or agreed to in writing, software
# distributed under the License is distributed on an "AS IS" BASIS,
# WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
# See the License for the specific language governing permissions and
# limitations under the License.
**/

package mosaic

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/NVIDIA/go-nvapi/pkg/nvapi"
	"github.com/NVIDIA/go-nvapi/pkg/nvapi/mock"
)

var _ = Describe("Mosaic session", func() {
	var (
		server  *mock.Server
		session *Session
		brief   nvapi.TopoBrief
		setting nvapi.DisplaySettingV2
	)

	BeforeEach(func() {
		server = mock.New()
		Expect(server.Init()).To(Equal(nvapi.OK))
		DeferCleanup(func() { server.Shutdown() })

		session = New(WithNvapi(server))
		brief = nvapi.TopoBrief{Topo: nvapi.MosaicTopo1x2Basic}
		setting = server.Mosaic.Settings[0]
	})

	It("starts unqueried", func() {
		Expect(session.State()).To(Equal(Unqueried))
	})

	Context("when querying", func() {
		It("moves to queried on the first successful query", func() {
			info, err := session.SupportedTopologies(nvapi.MosaicTopoTypeBasic)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Briefs()).To(HaveLen(5))
			Expect(session.State()).To(Equal(Queried))
		})

		It("stays unqueried when the query fails", func() {
			server.Fail["MosaicGetCurrentTopo"] = nvapi.NOT_SUPPORTED
			_, err := session.CurrentTopology()
			Expect(nvapi.IsNotSupported(err)).To(BeTrue())
			Expect(session.State()).To(Equal(Unqueried))
		})

		It("does not leave a configured state", func() {
			Expect(session.SetCurrentTopology(brief, setting, 0, 0, true)).To(Succeed())
			_, err := session.CurrentTopology()
			Expect(err).NotTo(HaveOccurred())
			Expect(session.State()).To(Equal(Enabled))
		})

		It("caches supported topologies per type", func() {
			_, err := session.SupportedTopologies(nvapi.MosaicTopoTypeBasic)
			Expect(err).NotTo(HaveOccurred())
			_, err = session.SupportedTopologies(nvapi.MosaicTopoTypeBasic)
			Expect(err).NotTo(HaveOccurred())
			Expect(server.Calls["MosaicGetSupportedTopoInfo"]).To(Equal(1))

			_, err = session.SupportedTopologies(nvapi.MosaicTopoTypePassiveStereo)
			Expect(err).NotTo(HaveOccurred())
			Expect(server.Calls["MosaicGetSupportedTopoInfo"]).To(Equal(2))
		})
	})

	Context("when configuring", func() {
		It("stores a disabled configuration", func() {
			Expect(session.SetCurrentTopology(brief, setting, 0, 0, false)).To(Succeed())
			Expect(session.State()).To(Equal(ConfiguredButDisabled))

			current, err := session.CurrentTopology()
			Expect(err).NotTo(HaveOccurred())
			Expect(current.Brief.Topo).To(Equal(nvapi.MosaicTopo1x2Basic))
			Expect(current.Brief.Enabled.Bool()).To(BeFalse())
		})

		It("toggles between enabled and disabled", func() {
			Expect(session.SetCurrentTopology(brief, setting, 16, 0, false)).To(Succeed())

			Expect(session.EnableCurrentTopology(true)).To(Succeed())
			Expect(session.State()).To(Equal(Enabled))

			Expect(session.EnableCurrentTopology(false)).To(Succeed())
			Expect(session.State()).To(Equal(ConfiguredButDisabled))

			current, err := session.CurrentTopology()
			Expect(err).NotTo(HaveOccurred())
			Expect(current.Brief.Topo).To(Equal(nvapi.MosaicTopo1x2Basic))
			Expect(current.OverlapX).To(Equal(int32(16)))
			Expect(current.Setting.Width).To(Equal(uint32(1920)))
		})

		It("keeps its state when the driver rejects the topology", func() {
			_, err := session.SupportedTopologies(nvapi.MosaicTopoTypeAll)
			Expect(err).NotTo(HaveOccurred())

			impossible := nvapi.TopoBrief{Topo: nvapi.MosaicTopo2x2PassiveStereo}
			err = session.SetCurrentTopology(impossible, setting, 0, 0, true)
			Expect(err).To(MatchError(nvapi.TOPO_NOT_POSSIBLE))
			Expect(session.State()).To(Equal(Queried))
		})

		It("enables a configuration made outside the session", func() {
			server.Mosaic.Current = nvapi.MosaicTopo1x2Basic
			server.Mosaic.Enabled = false

			Expect(session.EnableCurrentTopology(true)).To(Succeed())
			Expect(session.State()).To(Equal(Enabled))
			Expect(server.Mosaic.Enabled).To(BeTrue())
		})

		It("refreshes supported topologies after enabling a topology", func() {
			enabled := func() bool {
				info, err := session.SupportedTopologies(nvapi.MosaicTopoTypeBasic)
				Expect(err).NotTo(HaveOccurred())
				for _, b := range info.Briefs() {
					if b.Topo == nvapi.MosaicTopo1x2Basic {
						return b.Enabled.Bool()
					}
				}
				Fail("1x2 topology not reported")
				return false
			}

			Expect(enabled()).To(BeFalse())
			Expect(session.SetCurrentTopology(brief, setting, 0, 0, true)).To(Succeed())
			Expect(session.State()).To(Equal(Enabled))
			Expect(enabled()).To(BeTrue())
			Expect(server.Calls["MosaicGetSupportedTopoInfo"]).To(Equal(2))

			Expect(session.EnableCurrentTopology(false)).To(Succeed())
			Expect(enabled()).To(BeFalse())
			Expect(server.Calls["MosaicGetSupportedTopoInfo"]).To(Equal(3))
		})

		It("cannot enable without a configuration", func() {
			Expect(session.EnableCurrentTopology(true)).To(MatchError(nvapi.TOPO_NOT_POSSIBLE))
			Expect(session.State()).To(Equal(Unqueried))
		})

		It("uses the legacy API", func() {
			topos, err := session.SupportedMosaicTopologies()
			Expect(err).NotTo(HaveOccurred())
			Expect(topos).To(HaveLen(3))
			Expect(session.State()).To(Equal(Queried))

			Expect(session.SetCurrentMosaicTopology(topos[2])).To(Succeed())
			Expect(session.State()).To(Equal(Enabled))

			Expect(session.EnableCurrentMosaicTopology(false)).To(Succeed())
			Expect(session.State()).To(Equal(ConfiguredButDisabled))

			current, enabled, err := session.CurrentMosaicTopology()
			Expect(err).NotTo(HaveOccurred())
			Expect(enabled).To(BeFalse())
			Expect(current.RowCount).To(Equal(uint32(2)))
			Expect(current.ColCount).To(Equal(uint32(2)))
		})
	})

	Context("when handles are invalidated", func() {
		BeforeEach(func() {
			_, err := session.SupportedTopologies(nvapi.MosaicTopoTypeBasic)
			Expect(err).NotTo(HaveOccurred())
			Expect(session.SetCurrentTopology(brief, setting, 0, 0, true)).To(Succeed())
			Expect(session.State()).To(Equal(Enabled))
		})

		It("returns to unqueried on HANDLE_INVALIDATED", func() {
			server.Fail["MosaicGetCurrentTopo"] = nvapi.HANDLE_INVALIDATED
			_, err := session.CurrentTopology()
			Expect(nvapi.IsStale(err)).To(BeTrue())
			Expect(session.State()).To(Equal(Unqueried))
		})

		It("drops cached snapshots", func() {
			server.Fail["MosaicEnableCurrentTopo"] = nvapi.HANDLE_INVALIDATED
			Expect(session.EnableCurrentTopology(false)).NotTo(Succeed())
			Expect(session.State()).To(Equal(Unqueried))

			_, err := session.SupportedTopologies(nvapi.MosaicTopoTypeBasic)
			Expect(err).NotTo(HaveOccurred())
			Expect(server.Calls["MosaicGetSupportedTopoInfo"]).To(Equal(2))
			Expect(session.State()).To(Equal(Queried))
		})

		It("returns to unqueried on Invalidate", func() {
			session.Invalidate()
			Expect(session.State()).To(Equal(Unqueried))

			_, err := session.SupportedTopologies(nvapi.MosaicTopoTypeBasic)
			Expect(err).NotTo(HaveOccurred())
			Expect(server.Calls["MosaicGetSupportedTopoInfo"]).To(Equal(2))
		})

		It("returns to unqueried after setting display grids", func() {
			grids, err := session.DisplayGrids()
			Expect(err).NotTo(HaveOccurred())
			Expect(grids).To(HaveLen(4))

			Expect(session.SetDisplayGrids(grids, 0)).To(Succeed())
			Expect(session.State()).To(Equal(Unqueried))

			_, err = session.SupportedTopologies(nvapi.MosaicTopoTypeBasic)
			Expect(err).NotTo(HaveOccurred())
			Expect(server.Calls["MosaicGetSupportedTopoInfo"]).To(Equal(2))
		})

		It("keeps its state when setting display grids fails", func() {
			server.Fail["MosaicSetDisplayGrids"] = nvapi.TOPO_NOT_POSSIBLE
			grids, err := session.DisplayGrids()
			Expect(err).NotTo(HaveOccurred())

			Expect(session.SetDisplayGrids(grids, 0)).To(MatchError(nvapi.TOPO_NOT_POSSIBLE))
			Expect(session.State()).To(Equal(Enabled))
		})
	})
})
