package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/store"
)

// reply writes {"ok": true, key: v} with status, or the mapped error.
func reply[T any](c *gin.Context, op string, status int, key string, v T, err error) {
	if err != nil {
		writeError(c, op, err)
		return
	}
	c.JSON(status, gin.H{"ok": true, key: v})
}

func replyCascade(c *gin.Context, op string, r domain.CascadeReport, err error) {
	if err != nil {
		writeError(c, op, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "removed": r.Removed, "total": r.Total()})
}

func replyDeleted(c *gin.Context, op string, err error) {
	if err != nil {
		writeError(c, op, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// withStore runs fn with the :id project's store.
func (h *Handler) withStore(fn func(c *gin.Context, st *store.Store)) gin.HandlerFunc {
	return func(c *gin.Context) {
		if st, ok := h.project(c); ok {
			fn(c, st)
		}
	}
}

// withBody decodes the body into a fresh T and runs fn with the :id project's store.
func withBody[T any](h *Handler, fn func(c *gin.Context, st *store.Store, body T)) gin.HandlerFunc {
	return h.withStore(func(c *gin.Context, st *store.Store) {
		var body T
		if bind(c, &body) {
			fn(c, st, body)
		}
	})
}

// SWCs

func (h *Handler) listSWCs(c *gin.Context) {
	h.withStore(func(c *gin.Context, st *store.Store) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "swcs": st.ListSWCs()})
	})(c)
}

func (h *Handler) createSWC(c *gin.Context) {
	withBody(h, func(c *gin.Context, st *store.Store, spec domain.SWCSpec) {
		v, err := st.CreateSWC(spec)
		reply(c, "create_swc", http.StatusCreated, "swc", v, err)
	})(c)
}

func (h *Handler) getSWC(c *gin.Context) {
	h.withStore(func(c *gin.Context, st *store.Store) {
		v, err := st.GetSWC(c.Param("swcId"))
		reply(c, "get_swc", http.StatusOK, "swc", v, err)
	})(c)
}

func (h *Handler) updateSWC(c *gin.Context) {
	withBody(h, func(c *gin.Context, st *store.Store, patch domain.SWCPatch) {
		v, err := st.UpdateSWC(c.Param("swcId"), patch)
		reply(c, "update_swc", http.StatusOK, "swc", v, err)
	})(c)
}

func (h *Handler) deleteSWC(c *gin.Context) {
	h.withStore(func(c *gin.Context, st *store.Store) {
		r, err := st.DeleteSWC(c.Param("swcId"))
		replyCascade(c, "delete_swc", r, err)
	})(c)
}

// Ports

func (h *Handler) listPorts(c *gin.Context) {
	h.withStore(func(c *gin.Context, st *store.Store) {
		swcID := c.Param("swcId")
		if _, err := st.GetSWC(swcID); err != nil {
			writeError(c, "list_ports", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "ports": st.ListPorts(swcID)})
	})(c)
}

func (h *Handler) createPort(c *gin.Context) {
	withBody(h, func(c *gin.Context, st *store.Store, spec domain.PortSpec) {
		v, err := st.CreatePort(spec)
		reply(c, "create_port", http.StatusCreated, "port", v, err)
	})(c)
}

func (h *Handler) getPort(c *gin.Context) {
	h.withStore(func(c *gin.Context, st *store.Store) {
		v, err := st.GetPort(c.Param("portId"))
		reply(c, "get_port", http.StatusOK, "port", v, err)
	})(c)
}

func (h *Handler) updatePort(c *gin.Context) {
	withBody(h, func(c *gin.Context, st *store.Store, patch domain.PortPatch) {
		v, err := st.UpdatePort(c.Param("portId"), patch)
		reply(c, "update_port", http.StatusOK, "port", v, err)
	})(c)
}

func (h *Handler) deletePort(c *gin.Context) {
	h.withStore(func(c *gin.Context, st *store.Store) {
		r, err := st.DeletePort(c.Param("portId"))
		replyCascade(c, "delete_port", r, err)
	})(c)
}

// Interfaces

func (h *Handler) listInterfaces(c *gin.Context) {
	h.withStore(func(c *gin.Context, st *store.Store) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "interfaces": st.ListInterfaces()})
	})(c)
}

func (h *Handler) createInterface(c *gin.Context) {
	withBody(h, func(c *gin.Context, st *store.Store, spec domain.InterfaceSpec) {
		v, err := st.CreateInterface(spec)
		reply(c, "create_interface", http.StatusCreated, "interface", v, err)
	})(c)
}

func (h *Handler) getInterface(c *gin.Context) {
	h.withStore(func(c *gin.Context, st *store.Store) {
		v, err := st.GetInterface(c.Param("ifaceId"))
		reply(c, "get_interface", http.StatusOK, "interface", v, err)
	})(c)
}

func (h *Handler) updateInterface(c *gin.Context) {
	withBody(h, func(c *gin.Context, st *store.Store, patch domain.InterfacePatch) {
		v, err := st.UpdateInterface(c.Param("ifaceId"), patch)
		reply(c, "update_interface", http.StatusOK, "interface", v, err)
	})(c)
}

func (h *Handler) deleteInterface(c *gin.Context) {
	h.withStore(func(c *gin.Context, st *store.Store) {
		replyDeleted(c, "delete_interface", st.DeleteInterface(c.Param("ifaceId")))
	})(c)
}

func (h *Handler) addDataElement(c *gin.Context) {
	withBody(h, func(c *gin.Context, st *store.Store, spec domain.DataElementSpec) {
		v, err := st.AddDataElement(c.Param("ifaceId"), spec)
		reply(c, "add_data_element", http.StatusCreated, "data_element", v, err)
	})(c)
}

func (h *Handler) updateDataElement(c *gin.Context) {
	withBody(h, func(c *gin.Context, st *store.Store, patch domain.DataElementPatch) {
		v, err := st.UpdateDataElement(c.Param("ifaceId"), c.Param("elemId"), patch)
		reply(c, "update_data_element", http.StatusOK, "data_element", v, err)
	})(c)
}

func (h *Handler) removeDataElement(c *gin.Context) {
	h.withStore(func(c *gin.Context, st *store.Store) {
		replyDeleted(c, "remove_data_element", st.RemoveDataElement(c.Param("ifaceId"), c.Param("elemId")))
	})(c)
}

func (h *Handler) addOperation(c *gin.Context) {
	withBody(h, func(c *gin.Context, st *store.Store, spec domain.OperationSpec) {
		v, err := st.AddOperation(c.Param("ifaceId"), spec)
		reply(c, "add_operation", http.StatusCreated, "operation", v, err)
	})(c)
}

func (h *Handler) removeOperation(c *gin.Context) {
	h.withStore(func(c *gin.Context, st *store.Store) {
		replyDeleted(c, "remove_operation", st.RemoveOperation(c.Param("ifaceId"), c.Param("opId")))
	})(c)
}

// Data types

func (h *Handler) listDataTypes(c *gin.Context) {
	h.withStore(func(c *gin.Context, st *store.Store) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "data_types": st.ListDataTypes()})
	})(c)
}

func (h *Handler) createDataType(c *gin.Context) {
	withBody(h, func(c *gin.Context, st *store.Store, spec domain.DataTypeSpec) {
		v, err := st.CreateDataType(spec)
		reply(c, "create_data_type", http.StatusCreated, "data_type", v, err)
	})(c)
}

func (h *Handler) getDataType(c *gin.Context) {
	h.withStore(func(c *gin.Context, st *store.Store) {
		v, err := st.GetDataType(c.Param("dtId"))
		reply(c, "get_data_type", http.StatusOK, "data_type", v, err)
	})(c)
}

func (h *Handler) updateDataType(c *gin.Context) {
	withBody(h, func(c *gin.Context, st *store.Store, patch domain.DataTypePatch) {
		v, err := st.UpdateDataType(c.Param("dtId"), patch)
		reply(c, "update_data_type", http.StatusOK, "data_type", v, err)
	})(c)
}

func (h *Handler) deleteDataType(c *gin.Context) {
	h.withStore(func(c *gin.Context, st *store.Store) {
		replyDeleted(c, "delete_data_type", st.DeleteDataType(c.Param("dtId")))
	})(c)
}

// Runnables

func (h *Handler) listRunnables(c *gin.Context) {
	h.withStore(func(c *gin.Context, st *store.Store) {
		swcID := c.Param("swcId")
		if _, err := st.GetSWC(swcID); err != nil {
			writeError(c, "list_runnables", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "runnables": st.ListRunnables(swcID)})
	})(c)
}

func (h *Handler) createRunnable(c *gin.Context) {
	withBody(h, func(c *gin.Context, st *store.Store, spec domain.RunnableSpec) {
		v, err := st.CreateRunnable(c.Param("swcId"), spec)
		reply(c, "create_runnable", http.StatusCreated, "runnable", v, err)
	})(c)
}

func (h *Handler) getRunnable(c *gin.Context) {
	h.withStore(func(c *gin.Context, st *store.Store) {
		v, err := st.GetRunnable(c.Param("runId"))
		reply(c, "get_runnable", http.StatusOK, "runnable", v, err)
	})(c)
}

func (h *Handler) updateRunnable(c *gin.Context) {
	withBody(h, func(c *gin.Context, st *store.Store, patch domain.RunnablePatch) {
		v, err := st.UpdateRunnable(c.Param("runId"), patch)
		reply(c, "update_runnable", http.StatusOK, "runnable", v, err)
	})(c)
}

func (h *Handler) deleteRunnable(c *gin.Context) {
	h.withStore(func(c *gin.Context, st *store.Store) {
		r, err := st.DeleteRunnable(c.Param("runId"))
		replyCascade(c, "delete_runnable", r, err)
	})(c)
}

// Access points

func (h *Handler) listAccessPoints(c *gin.Context) {
	h.withStore(func(c *gin.Context, st *store.Store) {
		runID := c.Param("runId")
		if _, err := st.GetRunnable(runID); err != nil {
			writeError(c, "list_access_points", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "access_points": st.ListAccessPoints(runID)})
	})(c)
}

func (h *Handler) createAccessPoint(c *gin.Context) {
	withBody(h, func(c *gin.Context, st *store.Store, spec domain.AccessPointSpec) {
		v, err := st.CreateAccessPoint(spec)
		reply(c, "create_access_point", http.StatusCreated, "access_point", v, err)
	})(c)
}

// previewAccessPointName answers ?swc_id=&runnable_id=&type= with the name a new access point
// would get.
func (h *Handler) previewAccessPointName(c *gin.Context) {
	h.withStore(func(c *gin.Context, st *store.Store) {
		name, err := st.PreviewAccessPointName(c.Query("swc_id"), c.Query("runnable_id"), domain.AccessType(c.Query("type")))
		reply(c, "preview_access_point_name", http.StatusOK, "name", name, err)
	})(c)
}

func (h *Handler) getAccessPoint(c *gin.Context) {
	h.withStore(func(c *gin.Context, st *store.Store) {
		v, err := st.GetAccessPoint(c.Param("apId"))
		reply(c, "get_access_point", http.StatusOK, "access_point", v, err)
	})(c)
}

func (h *Handler) updateAccessPoint(c *gin.Context) {
	withBody(h, func(c *gin.Context, st *store.Store, patch domain.AccessPointPatch) {
		v, err := st.UpdateAccessPoint(c.Param("apId"), patch)
		reply(c, "update_access_point", http.StatusOK, "access_point", v, err)
	})(c)
}

func (h *Handler) deleteAccessPoint(c *gin.Context) {
	h.withStore(func(c *gin.Context, st *store.Store) {
		replyDeleted(c, "delete_access_point", st.DeleteAccessPoint(c.Param("apId")))
	})(c)
}

// Compositions

func (h *Handler) listCompositions(c *gin.Context) {
	h.withStore(func(c *gin.Context, st *store.Store) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "compositions": st.ListECUCompositions()})
	})(c)
}

func (h *Handler) createComposition(c *gin.Context) {
	withBody(h, func(c *gin.Context, st *store.Store, spec domain.ECUCompositionSpec) {
		v, err := st.CreateECUComposition(spec)
		reply(c, "create_composition", http.StatusCreated, "composition", v, err)
	})(c)
}

func (h *Handler) getComposition(c *gin.Context) {
	h.withStore(func(c *gin.Context, st *store.Store) {
		v, err := st.GetECUComposition(c.Param("compId"))
		reply(c, "get_composition", http.StatusOK, "composition", v, err)
	})(c)
}

func (h *Handler) updateComposition(c *gin.Context) {
	withBody(h, func(c *gin.Context, st *store.Store, patch domain.ECUCompositionPatch) {
		v, err := st.UpdateECUComposition(c.Param("compId"), patch)
		reply(c, "update_composition", http.StatusOK, "composition", v, err)
	})(c)
}

func (h *Handler) deleteComposition(c *gin.Context) {
	h.withStore(func(c *gin.Context, st *store.Store) {
		r, err := st.DeleteECUComposition(c.Param("compId"))
		replyCascade(c, "delete_composition", r, err)
	})(c)
}

func (h *Handler) addInstance(c *gin.Context) {
	withBody(h, func(c *gin.Context, st *store.Store, spec domain.SWCInstanceSpec) {
		v, err := st.AddSWCInstance(c.Param("compId"), spec)
		reply(c, "add_swc_instance", http.StatusCreated, "instance", v, err)
	})(c)
}

func (h *Handler) updateInstance(c *gin.Context) {
	withBody(h, func(c *gin.Context, st *store.Store, patch domain.SWCInstancePatch) {
		v, err := st.UpdateSWCInstance(c.Param("compId"), c.Param("instId"), patch)
		reply(c, "update_swc_instance", http.StatusOK, "instance", v, err)
	})(c)
}

func (h *Handler) removeInstance(c *gin.Context) {
	h.withStore(func(c *gin.Context, st *store.Store) {
		r, err := st.RemoveSWCInstance(c.Param("compId"), c.Param("instId"))
		replyCascade(c, "remove_swc_instance", r, err)
	})(c)
}

func (h *Handler) addConnector(c *gin.Context) {
	withBody(h, func(c *gin.Context, st *store.Store, spec domain.ConnectorSpec) {
		v, err := st.AddECUConnector(c.Param("compId"), spec)
		reply(c, "add_connector", http.StatusCreated, "connector", v, err)
	})(c)
}

func (h *Handler) removeConnector(c *gin.Context) {
	h.withStore(func(c *gin.Context, st *store.Store) {
		replyDeleted(c, "remove_connector", st.RemoveECUConnector(c.Param("compId"), c.Param("connId")))
	})(c)
}
