package driver

var IndexQueries = []string{
	"CREATE INDEX ON :Person(group_id);",
	"CREATE INDEX ON :Person(global_id);",
	"CREATE INDEX ON :Person(id);",
	"CREATE INDEX ON :Group(id);",
}

const (
	SaveGroupQuery = `
		MERGE (g:Group {id: $id})
		SET g.name = $name,
			g.created_at = coalesce(g.created_at, $created_at)
		RETURN g.id AS id
	`

	LinkGroupQuery = `
		MATCH (g:Group {id: $group_id})
		MATCH (parent:Group {id: $parent_id})
		OPTIONAL MATCH (g)-[old:LINKED_TO]->(:Group)
		DELETE old
		WITH DISTINCT g, parent
		MERGE (g)-[:LINKED_TO]->(parent)
		RETURN g.id AS id
	`

	UnlinkGroupQuery = `
		MATCH (g:Group {id: $group_id})-[old:LINKED_TO]->(:Group)
		DELETE old
	`

	GetGroupQuery = `
		MATCH (g:Group {id: $group_id})
		RETURN g.id AS id, g.name AS name
	`

	GetGroupParentQuery = `
		MATCH (g:Group {id: $group_id})-[:LINKED_TO]->(parent:Group)
		RETURN parent.id AS parent_id
		LIMIT 1
	`

	GetChildGroupsQuery = `
		MATCH (child:Group)-[:LINKED_TO]->(g:Group {id: $group_id})
		RETURN child.id AS id
		ORDER BY child.created_at ASC, child.id ASC
	`

	SavePersonQuery = `
		MERGE (p:Person {group_id: $group_id, id: $id})
		SET p.global_id = $global_id,
			p.first_name = $first_name,
			p.father_name = $father_name,
			p.grandfather_name = $grandfather_name,
			p.family_name = $family_name,
			p.gender = $gender,
			p.relation = $relation,
			p.birth_date = $birth_date,
			p.avatar_ref = $avatar_ref,
			p.position = coalesce(p.position, $position)
		RETURN p.id AS id
	`

	GetGroupMembersQuery = `
		MATCH (p:Person {group_id: $group_id})
		RETURN p.id AS id, p.global_id AS global_id, p.group_id AS group_id,
			p.first_name AS first_name, p.father_name AS father_name,
			p.grandfather_name AS grandfather_name, p.family_name AS family_name,
			p.gender AS gender, p.relation AS relation,
			p.birth_date AS birth_date, p.avatar_ref AS avatar_ref
		ORDER BY p.position ASC, p.id ASC
	`
)
