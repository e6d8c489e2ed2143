package lwo

// readNodeGraph reads NODS. The graph is recorded structurally.
func (p *parser) readNodeGraph(s *Surface, c *chunk) error {
	g := &NodeGraph{}
	if err := walk(p, c.payload, "node graph", g, nodeGraphHandlers); err != nil {
		return err
	}
	s.Nodes = append(s.Nodes, g)
	return nil
}

var nodeGraphHandlers = map[Tag]subHandler[*NodeGraph]{
	tagNVER: func(p *parser, g *NodeGraph, c *chunk) error {
		g.Version = uint32(c.value(0))
		return nil
	},
	tagNROT: func(p *parser, g *NodeGraph, c *chunk) error {
		return walk(p, c.payload, "node root", &g.Root, nodeRootHandlers)
	},
	tagNNDS: func(p *parser, g *NodeGraph, c *chunk) error {
		return walk(p, c.payload, "nodes", g, nodeListHandlers)
	},
	tagNCON: func(p *parser, g *NodeGraph, c *chunk) error {
		return walk(p, c.payload, "node connections", g, connectionHandlers)
	},
}

var nodeRootHandlers = map[Tag]subHandler[*NodeRoot]{
	tagNLOC: func(p *parser, root *NodeRoot, c *chunk) error {
		root.Location = [2]uint32{uint32(c.value(0)), uint32(c.value(1))}
		return nil
	},
	tagNZOM: func(p *parser, root *NodeRoot, c *chunk) error {
		root.Zoom = float32(c.value(0))
		return nil
	},
	tagNSTA: func(p *parser, root *NodeRoot, c *chunk) error {
		root.Disabled = c.value(0) != 0
		return nil
	},
}

// lastNode returns the node being described, starting one if needed.
func (g *NodeGraph) lastNode() *Node {
	if len(g.Nodes) == 0 {
		g.Nodes = append(g.Nodes, &Node{})
	}
	return g.Nodes[len(g.Nodes)-1]
}

var nodeListHandlers = map[Tag]subHandler[*NodeGraph]{
	// NSRV starts a node instance.
	tagNSRV: func(p *parser, g *NodeGraph, c *chunk) error {
		name, err := c.payload.str()
		if err != nil {
			return err
		}
		n := &Node{Server: name}
		g.Nodes = append(g.Nodes, n)
		if c.form {
			return walk(p, c.payload, "node", n, nodeHandlers)
		}
		return nil
	},
	tagNTAG: func(p *parser, g *NodeGraph, c *chunk) error {
		return walk(p, c.payload, "node tag", &g.lastNode().Tag, nodeTagHandlers)
	},
}

var nodeHandlers = map[Tag]subHandler[*Node]{
	tagNTAG: func(p *parser, n *Node, c *chunk) error {
		return walk(p, c.payload, "node tag", &n.Tag, nodeTagHandlers)
	},
}

func nodeString(field func(t *NodeTag) *string) subHandler[*NodeTag] {
	return func(p *parser, t *NodeTag, c *chunk) error {
		var err error
		*field(t), err = c.payload.str()
		return err
	}
}

var nodeTagHandlers = map[Tag]subHandler[*NodeTag]{
	tagNRNM: nodeString(func(t *NodeTag) *string { return &t.RealName }),
	tagNNME: nodeString(func(t *NodeTag) *string { return &t.Name }),
	tagNPRW: nodeString(func(t *NodeTag) *string { return &t.Preview }),
	tagNCOM: nodeString(func(t *NodeTag) *string { return &t.Comment }),
	tagNCRD: func(p *parser, t *NodeTag, c *chunk) error {
		t.Coords = [2]int32{int32(c.value(0)), int32(c.value(1))}
		return nil
	},
	tagNMOD: func(p *parser, t *NodeTag, c *chunk) error {
		t.Mode = uint32(c.value(0))
		return nil
	},
	tagNPLA: func(p *parser, t *NodeTag, c *chunk) error {
		t.Placement = uint32(c.value(0))
		return nil
	},
	tagNDTA: func(p *parser, t *NodeTag, c *chunk) error {
		var err error
		t.Data, err = c.payload.bytes(c.payload.remaining())
		return err
	},
}

// lastConnection returns the connection being described, starting one if
// needed.
func (g *NodeGraph) lastConnection() *NodeConnection {
	if len(g.Connections) == 0 {
		g.Connections = append(g.Connections, &NodeConnection{})
	}
	return g.Connections[len(g.Connections)-1]
}

func connectionString(field func(n *NodeConnection) *string) subHandler[*NodeGraph] {
	return func(p *parser, g *NodeGraph, c *chunk) error {
		var err error
		*field(g.lastConnection()), err = c.payload.str()
		return err
	}
}

var connectionHandlers = map[Tag]subHandler[*NodeGraph]{
	// INME starts a connection.
	tagINME: func(p *parser, g *NodeGraph, c *chunk) error {
		name, err := c.payload.str()
		if err != nil {
			return err
		}
		g.Connections = append(g.Connections, &NodeConnection{Name: name})
		return nil
	},
	tagIINM: connectionString(func(n *NodeConnection) *string { return &n.InputName }),
	tagIINN: connectionString(func(n *NodeConnection) *string { return &n.InputNodeName }),
	tagIONM: connectionString(func(n *NodeConnection) *string { return &n.InputOutputName }),
}
